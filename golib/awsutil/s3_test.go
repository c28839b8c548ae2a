package awsutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsS3URI(t *testing.T) {
	assert.True(t, IsS3URI("s3://youralert-data/semfeat.arff"))
	assert.False(t, IsS3URI("/data/semfeat.arff"))
	assert.False(t, IsS3URI("https://example.com/semfeat.arff"))
}

func TestValidateURI(t *testing.T) {
	u, err := ValidateURI("s3://youralert-data/youralert/semfeat.arff")
	require.NoError(t, err)
	assert.Equal(t, "youralert-data", u.Host)
	assert.Equal(t, "/youralert/semfeat.arff", u.Path)

	_, err = ValidateURI("/local/semfeat.arff")
	assert.Error(t, err)

	_, err = ValidateURI("s3:///semfeat.arff")
	assert.Error(t, err)
}
