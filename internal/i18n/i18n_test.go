package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestPrinterFallsBackToEnglish(t *testing.T) {
	for _, lang := range []string{"", "klingon", "fr", "en-US"} {
		p := New(lang)
		assert.Equal(t, language.English, p.Language(), lang)
		assert.Equal(t, "must be a positive integer", p.T(MsgSampleSizeInvalid))
	}
}

func TestPrinterSpanish(t *testing.T) {
	p := New("es-MX")
	assert.Equal(t, language.Spanish, p.Language())
	assert.Equal(t, "Debe ser un entero positivo", p.T(MsgSampleSizeInvalid))
	assert.Equal(t, "Se ha generado un nuevo reporte para el tipo fire.", p.T(MsgReportCreated, "fire"))
}

func TestNilPrinterUsesDefault(t *testing.T) {
	var p *Printer
	assert.Equal(t, "Report 7 is not in the list", p.T(MsgUnknownReport, "7"))
}
