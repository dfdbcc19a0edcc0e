package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStampNewRecord(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2024, 5, 6, 9, 30, 0, 123456789, loc)

	var a AuditedRecord
	a.Stamp(now)

	_, err := uuid.Parse(a.ID)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, a.DateCreated.Location())
	assert.Equal(t, 123456000, a.DateCreated.Nanosecond())
	assert.True(t, a.DateCreated.Equal(a.LastUpdated))
}

func TestStampExistingRecord(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := AuditedRecord{ID: "fixed-id", DateCreated: created, LastUpdated: created}

	later := created.Add(36 * time.Hour)
	a.Stamp(later)
	assert.Equal(t, "fixed-id", a.ID)
	assert.Equal(t, created, a.DateCreated)
	assert.Equal(t, later, a.LastUpdated)

	// a clock that runs backwards never produces LastUpdated before DateCreated
	a.Stamp(created.Add(-time.Hour))
	assert.Equal(t, created, a.LastUpdated)
}

func TestClassification(t *testing.T) {
	c, err := ParseClassification("VEGETARIAN")
	require.NoError(t, err)
	assert.Equal(t, Vegetarian, c)

	_, err = ParseClassification("vegan")
	assert.Error(t, err)
	assert.False(t, Classification("").Valid())
}

func TestUnitOfMeasure(t *testing.T) {
	for _, u := range []UnitOfMeasure{Unit, Gram, Kilogram, Millilitre, Litre, Teaspoon, Tablespoon, Cup, Pinch} {
		got, err := ParseUnitOfMeasure(string(u))
		require.NoError(t, err)
		assert.Equal(t, u, got)
	}
	_, err := ParseUnitOfMeasure("gram")
	assert.Error(t, err)
}

func TestRecipeEqualComparesIdentity(t *testing.T) {
	a := Recipe{AuditedRecord: AuditedRecord{ID: "1"}, Name: "Boil egg"}
	b := Recipe{AuditedRecord: AuditedRecord{ID: "1"}, Name: "Renamed"}
	c := Recipe{AuditedRecord: AuditedRecord{ID: "2"}, Name: "Boil egg"}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
