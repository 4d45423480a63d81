package textclass

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "TERRAZA GRANDE", "terraza grande"},
		{"diacritics", "Ático con balcón", "atico con balcon"},
		{"mixed", "ORIENTACIÓN Sur", "orientacion sur"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestClassify(t *testing.T) {
	rules := DefaultRules()

	t.Run("occupied listing is risky", func(t *testing.T) {
		flags := Classify("Piso actualmente ocupado, no se puede visitar", rules)
		assert.True(t, flags.Risky)
	})

	t.Run("auction listing is risky", func(t *testing.T) {
		flags := Classify("Vivienda en subasta judicial", rules)
		assert.True(t, flags.Risky)
	})

	t.Run("amenities with diacritics", func(t *testing.T) {
		flags := Classify("Ático con terraza y balcón, orientación sur", rules)
		assert.False(t, flags.Risky)
		assert.True(t, flags.Terrace)
		assert.True(t, flags.Balcony)
		assert.True(t, flags.LastFloor)
		assert.True(t, flags.SouthFacing)
	})

	t.Run("short let license", func(t *testing.T) {
		flags := Classify("Apartamento con licencia turística en vigor", rules)
		assert.True(t, flags.ShortLetReady)
	})

	t.Run("uppercase input matches", func(t *testing.T) {
		flags := Classify("OCUPADO SIN POSESIÓN", rules)
		assert.True(t, flags.Risky)
	})

	t.Run("empty description yields no flags", func(t *testing.T) {
		flags := Classify("", rules)
		assert.False(t, flags.Risky)
		assert.False(t, flags.Terrace)
		assert.False(t, flags.Balcony)
		assert.False(t, flags.LastFloor)
		assert.False(t, flags.SouthFacing)
		assert.False(t, flags.ShortLetReady)
	})

	t.Run("plain description yields no flags", func(t *testing.T) {
		flags := Classify("Piso luminoso cerca del centro", rules)
		assert.False(t, flags.Risky)
		assert.False(t, flags.Terrace)
	})
}

func TestLoadRules(t *testing.T) {
	path := t.TempDir() + "/rules.yaml"
	content := `version: test
risky: ["Ocupado"]
terrace: ["Terraza"]
`
	require.NoError(t, writeFile(path, content))

	rt, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, "test", rt.Version)
	// Terms are normalized on load.
	assert.Equal(t, []string{"ocupado"}, rt.Risky)

	flags := Classify("Piso OCUPADO con terraza", rt)
	assert.True(t, flags.Risky)
	assert.True(t, flags.Terrace)
}

func TestLoadRulesNoRiskTerms(t *testing.T) {
	path := t.TempDir() + "/rules.yaml"
	require.NoError(t, writeFile(path, "version: test\nterrace: [terraza]\n"))

	_, err := LoadRules(path)
	assert.Error(t, err)
}
