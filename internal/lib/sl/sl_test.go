package sl_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/coffeehouse/internal/lib/sl"
)

func TestErr(t *testing.T) {
	attr := sl.Err(errors.New("gateway returned empty url"))

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, slog.StringValue("gateway returned empty url"), attr.Value)
}

func TestErr_NilError(t *testing.T) {
	attr := sl.Err(nil)
	assert.Equal(t, "<nil>", attr.Value.String())
}

func TestOp(t *testing.T) {
	attr := sl.Op("handlers.purchase.create")
	assert.Equal(t, "op", attr.Key)
	assert.Equal(t, "handlers.purchase.create", attr.Value.String())
}
