package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromPostalCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want string
	}{
		{"75008", IleDeFrance},
		{"92100", IleDeFrance},
		{"69002", AuvergneRhoneAlpes},
		{"13001", PACA},
		{"33000", NouvelleAquitaine},
		{"31000", Occitanie},
		{"59000", HautsDeFrance},
		{"67000", GrandEst},
		{"35000", Bretagne},
		{"44000", PaysDeLaLoire},
		{"14000", Normandie},
		{"21000", BourgogneFrancheComte},
		{"45000", CentreValDeLoire},
		{"20000", Corse},
		{"20200", Corse},
		{"97100", Guadeloupe},
		{"97200", Martinique},
		{"97300", Guyane},
		{"97400", Reunion},
		{"97600", Mayotte},
		{"97500", "Saint-Pierre-et-Miquelon"},
		{"98800", "Nouvelle-Calédonie"},
		{"1000", AuvergneRhoneAlpes},
		{" 06000 ", PACA},
		{"97700", ""},
		{"98000", ""},
		{"00100", ""},
		{"96000", ""},
		{"", ""},
		{"7", ""},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FromPostalCode(tt.code))
		})
	}
}

func TestDefaultTable_AllDepartments(t *testing.T) {
	t.Parallel()

	for dep := 1; dep <= 95; dep++ {
		code := []byte{byte('0' + dep/10), byte('0' + dep%10)}
		assert.NotEmpty(t, DefaultTable[string(code)], "department %s", code)
	}
}

func TestResolver_CustomTable(t *testing.T) {
	t.Parallel()

	r := NewResolver(Table{"75": "Paris", "750": "Paris Centre"})
	assert.Equal(t, "Paris Centre", r.Region("75001"))
	assert.Equal(t, "Paris", r.Region("75116"))
	assert.Empty(t, r.Region("69001"))
}
