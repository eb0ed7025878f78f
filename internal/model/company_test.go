package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputKind_Label(t *testing.T) {
	assert.Equal(t, "Email", InputKindEmail.Label())
	assert.Equal(t, "Nom entreprise", InputKindCompanyName.Label())
}

func TestStatus_Label(t *testing.T) {
	assert.Equal(t, "Trouvé", StatusSuccess.Label())
	assert.Equal(t, "Non trouvé", StatusNotFound.Label())
	assert.Equal(t, "Erreur", StatusError.Label())
}

func TestStatsOf(t *testing.T) {
	stats := StatsOf([]EnrichmentResult{
		{Status: StatusSuccess},
		{Status: StatusSuccess},
		{Status: StatusNotFound},
		{Status: StatusError},
	})
	assert.Equal(t, BatchStats{Completed: 4, Succeeded: 2, NotFound: 1, Failed: 1}, stats)
	assert.Equal(t, BatchStats{}, StatsOf(nil))
}
