package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToDisplay(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "full worksheet name", in: "I/GONZALES/ANALYN/D@", want: "ANALYN D. GONZALES"},
		{name: "empty initial", in: "I/CRUZ/JUAN/@", want: "JUAN CRUZ"},
		{name: "no initial segment", in: "I/CRUZ/JUAN@", want: "JUAN CRUZ"},
		{name: "too few segments", in: "I/CRUZ@", want: "I/CRUZ@"},
		{name: "missing prefix", in: "GONZALES/ANALYN/D@", want: "GONZALES/ANALYN/D@"},
		{name: "display name passes through", in: "ANALYN D. GONZALES", want: "ANALYN D. GONZALES"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToDisplay(tt.in))
		})
	}
}

func TestToDisplay_NonConformingIsStable(t *testing.T) {
	for _, in := range []string{"hello", "I/", "I/A@", "X/GONZALES/ANALYN/D@"} {
		assert.Equal(t, in, ToDisplay(in))
		assert.Equal(t, in, ToDisplay(ToDisplay(in)))
	}
}

func TestToWorksheetFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "ANALYN D. GONZALES", want: "I/GONZALES/ANALYN/D@"},
		{in: "Juan Cruz", want: "I/CRUZ/JUAN/@"},
		{in: "Maria Clara Santos", want: "I/SANTOS/MARIA/@"},
		{in: "Madonna", want: "I/MADONNA//@"},
		{in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ToWorksheetFormat(tt.in))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	code := "I/GONZALES/ANALYN/D@"
	assert.Equal(t, code, ToWorksheetFormat(ToDisplay(code)))

	// Multi-word last names do not survive the round trip.
	lossy := "I/DELA CRUZ/JUAN/P@"
	assert.NotEqual(t, lossy, ToWorksheetFormat(ToDisplay(lossy)))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "ANALYN D. GONZALES", Normalize("  analyn   d.\tgonzales "))
	assert.Equal(t, "", Normalize("   "))
	assert.Equal(t, Normalize("Juan  Cruz"), Normalize("JUAN CRUZ"))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Analyn D. Gonzales", TitleCase("ANALYN D. GONZALES"))
	assert.Equal(t, "", TitleCase(""))
}
