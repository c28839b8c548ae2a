package dataset

import (
	"bytes"
	"compress/gzip"
	"io/ioutil"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/snappy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youralert/youralert/golib/errors"
)

const denseARFF = `% YourAlert semfeat sample
@relation 'youralert semfeat'

@attribute id string
@attribute user {alice,bob}
@attribute source {youralert}
@attribute 1_dog numeric
@attribute '2_beach view' real
@attribute class {public,private}

@data
'img 1',alice,youralert,0.5,1,private
img2,bob,youralert,?,2.25,public
img3,alice,youralert,-1,0,'private'
'img 1',bob,youralert,3,3,private
`

func TestReadARFF_Dense(t *testing.T) {
	ds, err := ReadARFF(strings.NewReader(denseARFF))
	require.NoError(t, err)

	require.Equal(t, 6, ds.Schema.NumAttributes())
	assert.Equal(t, "youralert semfeat", ds.Schema.Relation)
	assert.Equal(t, "2_beach view", ds.Schema.Attributes[4].Name)
	assert.Equal(t, 5, ds.Schema.ClassIndex())
	assert.Equal(t, 1, ds.Schema.PrivateValue)
	assert.Equal(t, []string{"alice", "bob"}, ds.Users())

	require.Equal(t, 4, ds.Len())
	assert.Equal(t, []int{1, 0, 1, 1}, ds.Labels())
	assert.Equal(t, 0.5, ds.Examples[0].Value(3))
	assert.True(t, math.IsNaN(ds.Examples[1].Value(3)))
	assert.Equal(t, 2.25, ds.Examples[1].Value(4))

	// string values share a growing table
	id := ds.Schema.Attributes[IDIndex]
	assert.Equal(t, []string{"img 1", "img2", "img3"}, id.Values)
	assert.Equal(t, 0.0, ds.Examples[3].Value(IDIndex))
}

func TestReadARFF_Sparse(t *testing.T) {
	src := `@relation sparse
@attribute id numeric
@attribute user {u1,u2}
@attribute source {s}
@attribute a numeric
@attribute b numeric
@attribute class {private,public}
@data
{1 u2, 4 7.5, 5 public}
{0 3, 3 1}
{}
`
	ds, err := ReadARFF(strings.NewReader(src))
	require.NoError(t, err)

	// private is the first class value here
	assert.Equal(t, 0, ds.Schema.PrivateValue)
	require.Equal(t, 3, ds.Len())
	assert.Equal(t, []int{0, 1, 1}, ds.Labels())
	assert.Equal(t, 1.0, ds.Examples[0].Value(UserIndex))
	assert.Equal(t, 7.5, ds.Examples[0].Value(4))
	assert.Equal(t, 0.0, ds.Examples[0].Value(3))
	assert.Equal(t, 3.0, ds.Examples[1].Value(0))
	assert.Equal(t, 1.0, ds.Examples[1].Value(3))
}

func TestReadARFF_Errors(t *testing.T) {
	tcs := []struct {
		name string
		src  string
	}{
		{"no data", "@relation r\n@attribute a numeric\n@attribute class {a,b}\n"},
		{"bad class", "@relation r\n@attribute a numeric\n@attribute class numeric\n@data\n1,1\n"},
		{"three classes", "@relation r\n@attribute a numeric\n@attribute class {a,b,c}\n@data\n"},
		{"bad numeric", "@relation r\n@attribute a numeric\n@attribute class {a,b}\n@data\nx,a\n"},
		{"unknown nominal", "@relation r\n@attribute a numeric\n@attribute class {a,b}\n@data\n1,c\n"},
		{"missing class", "@relation r\n@attribute a numeric\n@attribute class {a,b}\n@data\n1,?\n"},
		{"arity", "@relation r\n@attribute a numeric\n@attribute class {a,b}\n@data\n1,a,2\n"},
		{"date", "@relation r\n@attribute a date\n@attribute class {a,b}\n@data\n"},
		{"sparse range", "@relation r\n@attribute a numeric\n@attribute class {a,b}\n@data\n{7 1}\n"},
		{"garbage header", "@relation r\nhello\n"},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadARFF(strings.NewReader(tc.src))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir, err := ioutil.TempDir("", "dataset")
	require.NoError(t, err)

	plain := filepath.Join(dir, "semfeat.arff")
	require.NoError(t, ioutil.WriteFile(plain, []byte(denseARFF), 0644))

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err = gz.Write([]byte(denseARFF))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	compressed := filepath.Join(dir, "semfeat.arff.gz")
	require.NoError(t, ioutil.WriteFile(compressed, buf.Bytes(), 0644))

	buf.Reset()
	sz := snappy.NewBufferedWriter(&buf)
	_, err = sz.Write([]byte(denseARFF))
	require.NoError(t, err)
	require.NoError(t, sz.Close())
	framed := filepath.Join(dir, "semfeat.arff.sz")
	require.NoError(t, ioutil.WriteFile(framed, buf.Bytes(), 0644))

	for _, path := range []string{plain, compressed, framed} {
		ds, err := Load(path)
		require.NoError(t, err, path)
		assert.Equal(t, 4, ds.Len(), path)
	}

	_, err = Load(filepath.Join(dir, "missing.arff"))
	assert.True(t, errors.Is(err, ErrDatasetNotFound))
}

func TestWriteARFF(t *testing.T) {
	ds, err := ReadARFF(strings.NewReader(denseARFF))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteARFF(&buf, ds))

	back, err := ReadARFF(&buf)
	require.NoError(t, err)
	assert.True(t, ds.Schema.Compatible(back.Schema))
	assert.Equal(t, ds.Users(), back.Users())
	require.Equal(t, ds.Len(), back.Len())
	for i := range ds.Examples {
		for j := 0; j < ds.Schema.NumAttributes(); j++ {
			want, got := ds.Examples[i].Value(j), back.Examples[i].Value(j)
			if math.IsNaN(want) {
				assert.True(t, math.IsNaN(got))
				continue
			}
			assert.Equal(t, want, got)
		}
	}
}
