package prompt

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pokereports/pokereports/internal/i18n"
)

func TestConfirmAnswers(t *testing.T) {
	d := DeleteDialog(i18n.Default, "42")
	cases := map[string]bool{
		"y\n":      true,
		"YES\n":    true,
		"delete\n": true,
		"Delete":   true,
		"n\n":      false,
		"\n":       false,
		"":         false,
		"maybe\n":  false,
	}
	for in, want := range cases {
		var out bytes.Buffer
		assert.Equal(t, want, Confirm(strings.NewReader(in), &out, d), "%q", in)
		assert.Contains(t, out.String(), "Delete report 42? This action cannot be undone.")
		assert.Contains(t, out.String(), "[Delete/Cancel]")
	}
}

func TestConfirmSpanishLabel(t *testing.T) {
	d := DeleteDialog(i18n.New("es"), "7")
	assert.True(t, d.Accepts("eliminar"))
	assert.True(t, d.Accepts("y"))
	assert.False(t, d.Accepts("cancelar"))
	assert.True(t, strings.HasPrefix(d.Question(), "Eliminar reporte: ¿Deseas eliminar el reporte 7?"))
}

func TestQuestionDefaults(t *testing.T) {
	assert.Equal(t, "Proceed? [y/N]: ", Dialog{Description: "Proceed?"}.Question())
}

func TestIsInteractive(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	assert.NoError(t, err)
	defer f.Close()
	assert.False(t, IsInteractive(f))
	assert.False(t, IsInteractive(nil))
}
