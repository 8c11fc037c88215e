package validators

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Time  string `validate:"hhmm"`
	Date  string `validate:"ymd"`
	Phone string `validate:"phone"`
}

func TestCustomTags(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterOn(v))

	assert.NoError(t, v.Struct(sample{Time: "09:30", Date: "2025-06-03", Phone: "+1 (555) 010-0100"}))

	bad := []sample{
		{Time: "9:30", Date: "2025-06-03", Phone: "+15550100"},
		{Time: "24:00", Date: "2025-06-03", Phone: "+15550100"},
		{Time: "09:30", Date: "03/06/2025", Phone: "+15550100"},
		{Time: "09:30", Date: "2025-02-30", Phone: "+15550100"},
		{Time: "09:30", Date: "2025-06-03", Phone: "call me"},
	}
	for _, s := range bad {
		assert.Error(t, v.Struct(s), "%+v", s)
	}
}
