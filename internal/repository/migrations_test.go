package repository

import (
	"testing"

	"github.com/golang-migrate/migrate/v4/database"
	"github.com/stretchr/testify/assert"
)

func TestCleanVersionBefore(t *testing.T) {
	assert.Equal(t, database.NilVersion, cleanVersionBefore(1))
	assert.Equal(t, database.NilVersion, cleanVersionBefore(0))
	assert.Equal(t, 2, cleanVersionBefore(3))
}
