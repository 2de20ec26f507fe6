// Package i18n holds the user-facing message catalog.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. The English text doubles as the key.
const (
	MsgSampleSizeInvalid  = "must be a positive integer"
	MsgLoadReportsFailed  = "Failed to load reports. Please try again later."
	MsgLoadTypesFailed    = "Failed to load types. Please try again later."
	MsgReportsRefreshed   = "Reports refreshed successfully"
	MsgRefreshFailed      = "Could not refresh reports. Please try again."
	MsgReportCreated      = "A new report was requested for type %s."
	MsgCreateFailed       = "Could not create the report. Please try again."
	MsgReportDeleted      = "Report deleted successfully"
	MsgDeleteFailed       = "Could not delete the report. Please try again."
	MsgReportIDMissing    = "Could not identify the report to delete"
	MsgDownloadMissing    = "Download URL not available"
	MsgDownloadSaved      = "Report %s saved to %s"
	MsgDownloadFailed     = "Could not download the report. Please try again."
	MsgDeleteTitle        = "Delete report"
	MsgDeleteDescription  = "Delete report %s? This action cannot be undone."
	MsgConfirm            = "Delete"
	MsgCancel             = "Cancel"
	MsgCancelled          = "Cancelled"
	MsgNoReports          = "No reports available"
	MsgCaption            = "List of Pokémon reports available for download"
	MsgNewestFirst        = "Newest first"
	MsgOldestFirst        = "Oldest first"
	MsgLoading            = "Loading..."
	MsgCreating           = "Creating..."
	MsgCreateDisabled     = "Create is disabled: %s"
	MsgNoTypeSelected     = "no type selected"
	MsgBusy               = "an operation is in progress"
	MsgUnknownReport      = "Report %s is not in the list"
	MsgDeleteInProgress   = "Report %s is already being deleted"
	MsgRefreshFailedAfter = "The report was created but the list could not be refreshed."
)

var translations = map[language.Tag]map[string]string{
	language.Spanish: {
		MsgSampleSizeInvalid:  "Debe ser un entero positivo",
		MsgLoadReportsFailed:  "Error al cargar los reportes. Por favor, intenta de nuevo más tarde.",
		MsgLoadTypesFailed:    "Error al cargar los tipos de Pokémon. Por favor, intenta de nuevo más tarde.",
		MsgReportsRefreshed:   "Los reportes han sido actualizados correctamente",
		MsgRefreshFailed:      "No se pudieron actualizar los reportes. Por favor, intenta de nuevo.",
		MsgReportCreated:      "Se ha generado un nuevo reporte para el tipo %s.",
		MsgCreateFailed:       "No se pudo crear el reporte. Por favor, intenta de nuevo.",
		MsgReportDeleted:      "Reporte eliminado correctamente",
		MsgDeleteFailed:       "No se pudo eliminar el reporte. Intenta de nuevo.",
		MsgReportIDMissing:    "No se pudo identificar el reporte a eliminar",
		MsgDownloadMissing:    "URL de descarga no disponible",
		MsgDownloadSaved:      "Reporte %s guardado en %s",
		MsgDownloadFailed:     "No se pudo descargar el reporte. Intenta de nuevo.",
		MsgDeleteTitle:        "Eliminar reporte",
		MsgDeleteDescription:  "¿Deseas eliminar el reporte %s? Esta acción no se puede deshacer.",
		MsgConfirm:            "Eliminar",
		MsgCancel:             "Cancelar",
		MsgCancelled:          "Cancelado",
		MsgNoReports:          "No hay reportes disponibles",
		MsgCaption:            "Lista de reportes de Pokémon disponibles para descargar",
		MsgNewestFirst:        "Más reciente primero",
		MsgOldestFirst:        "Más antiguo primero",
		MsgLoading:            "Cargando...",
		MsgCreating:           "Creando...",
		MsgCreateDisabled:     "No se puede crear: %s",
		MsgNoTypeSelected:     "no hay un tipo seleccionado",
		MsgBusy:               "hay una operación en curso",
		MsgUnknownReport:      "El reporte %s no está en la lista",
		MsgDeleteInProgress:   "El reporte %s ya se está eliminando",
		MsgRefreshFailedAfter: "El reporte fue creado pero la lista no se pudo actualizar.",
	},
}

var supported = []language.Tag{language.English, language.Spanish}

var matcher = language.NewMatcher(supported)

func init() {
	for tag, msgs := range translations {
		for key, text := range msgs {
			_ = message.SetString(tag, key, text)
		}
	}
}

// Printer formats catalog messages for one language.
type Printer struct {
	p   *message.Printer
	tag language.Tag
}

// New returns a printer for the best supported match of lang (e.g. "es",
// "es-MX", "en-US"). Unknown or empty values fall back to English.
func New(lang string) *Printer {
	tag := language.English
	if lang != "" {
		if parsed, err := language.Parse(lang); err == nil {
			_, idx, _ := matcher.Match(parsed)
			tag = supported[idx]
		}
	}
	return &Printer{p: message.NewPrinter(tag), tag: tag}
}

// Default is the English printer.
var Default = New("en")

// T formats the message key with args.
func (p *Printer) T(key string, args ...any) string {
	if p == nil {
		return Default.T(key, args...)
	}
	return p.p.Sprintf(key, args...)
}

// Language returns the tag the printer resolved to.
func (p *Printer) Language() language.Tag {
	return p.tag
}
