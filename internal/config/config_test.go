package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Encode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Default(filepath.Join(".pow", "worm.db")).Encode(&buf))

	want := "{\n" +
		"    \"rdf.source\": \"sqlite\",\n" +
		"    \"rdf.store_conf\": \".pow/worm.db\"\n" +
		"}\n"
	assert.Equal(t, want, buf.String())
}

func TestReadWrite_PreservesUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pow.conf")
	in := `{"user.email": "a@b.c", "rdf.source": "sqlite", "rdf.store_conf": "old.db", "rdf.upload_block_statement_count": 50}`
	require.NoError(t, os.WriteFile(path, []byte(in), 0o644))

	conf, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "old.db", conf.StoreConf())
	assert.Equal(t, 50, conf.BatchSize())

	conf.SetStoreConf(filepath.Join(".pow", "worm.db"))
	require.NoError(t, conf.Write(path))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	want := "{\n" +
		"    \"rdf.source\": \"sqlite\",\n" +
		"    \"rdf.store_conf\": \".pow/worm.db\",\n" +
		"    \"rdf.upload_block_statement_count\": 50,\n" +
		"    \"user.email\": \"a@b.c\"\n" +
		"}\n"
	assert.Equal(t, want, string(got))
}

func TestRead_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		return p
	}

	tests := []struct {
		name string
		path string
		code ErrorCode
	}{
		{name: "missing", path: filepath.Join(dir, "nope.conf"), code: CodeMissing},
		{name: "not json", path: write("bad.conf", "{not json"), code: CodeMalformed},
		{name: "not an object", path: write("null.conf", "null"), code: CodeMalformed},
		{name: "unknown source", path: write("src.conf", `{"rdf.source": "zodb", "rdf.store_conf": "x"}`), code: CodeInvalid},
		{name: "no store", path: write("nostore.conf", `{"rdf.source": "sqlite"}`), code: CodeInvalid},
		{name: "empty store", path: write("empty.conf", `{"rdf.source": "sqlite", "rdf.store_conf": ""}`), code: CodeInvalid},
		{name: "bad batch", path: write("batch.conf", `{"rdf.source": "sqlite", "rdf.store_conf": "x", "rdf.upload_block_statement_count": 0}`), code: CodeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(tt.path)
			require.Error(t, err)

			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.code, ce.Code)
			assert.Equal(t, tt.path, ce.Path)
		})
	}
}

func TestStorePath(t *testing.T) {
	conf := Default("sub/worm.db")
	assert.Equal(t, filepath.Join("/base", "sub", "worm.db"), conf.StorePath("/base"))

	conf.SetStoreConf("/abs/worm.db")
	assert.Equal(t, "/abs/worm.db", conf.StorePath("/base"))
}

func TestBatchSize_Unset(t *testing.T) {
	assert.Equal(t, 0, Default("x").BatchSize())
}
