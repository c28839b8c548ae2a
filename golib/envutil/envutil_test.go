package envutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	const name = "YOURALERT_ENVUTIL_STRING"
	defer os.Unsetenv(name)

	os.Unsetenv(name)
	assert.Equal(t, "datasets", String(name, "datasets"))

	os.Setenv(name, "")
	assert.Equal(t, "datasets", String(name, "datasets"))

	os.Setenv(name, "s3://bucket/datasets")
	assert.Equal(t, "s3://bucket/datasets", String(name, "datasets"))
}

func TestInt(t *testing.T) {
	const name = "YOURALERT_ENVUTIL_INT"
	defer os.Unsetenv(name)

	os.Unsetenv(name)
	i, err := Int(name, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, i)

	os.Setenv(name, "12")
	i, err = Int(name, 4)
	require.NoError(t, err)
	assert.Equal(t, 12, i)

	os.Setenv(name, "twelve")
	i, err = Int(name, 4)
	assert.Error(t, err)
	assert.Equal(t, 4, i)
}
