package pgtestutil

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSNFromEnv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "unset_uses_default",
			env:  map[string]string{},
			want: defaultDSN,
		},
		{
			name: "blank_uses_default",
			env:  map[string]string{"PG_TEST_DSN": "  "},
			want: defaultDSN,
		},
		{
			name: "override",
			env:  map[string]string{"PG_TEST_DSN": "postgres://ci:secret@db:5432/postgres?sslmode=disable"},
			want: "postgres://ci:secret@db:5432/postgres?sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := dsnFromEnv(func(k string) string { return tt.env[k] })
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReplaceDBInDSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		dsn       string
		db        string
		wantHost  string
		wantQuery string
	}{
		{
			name:      "default_server",
			dsn:       defaultDSN,
			db:        "testdb_wallets",
			wantHost:  "localhost:5432",
			wantQuery: "sslmode=disable",
		},
		{
			name:     "no_path_no_query",
			dsn:      "postgres://ci@db:6543",
			db:       "testdb_ledger",
			wantHost: "db:6543",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := ReplaceDBInDSN(tt.dsn, tt.db)
			require.NoError(t, err)

			u, err := url.Parse(out)
			require.NoError(t, err)
			assert.Equal(t, "/"+tt.db, u.Path)
			assert.Equal(t, tt.wantHost, u.Host)
			assert.Equal(t, tt.wantQuery, u.RawQuery)
		})
	}

	_, err := ReplaceDBInDSN("postgres://bad host:%zz/x", "y")
	require.Error(t, err)
}

func TestSanitizeForPgIdent(t *testing.T) {
	t.Parallel()

	got := sanitizeForPgIdent("TestSettle/Scan: Stops On Miss")
	assert.Equal(t, "testsettle_scan__stops_on_miss", got)

	long := sanitizeForPgIdent(strings.Repeat("a", 40) + strings.Repeat("b", 40))
	assert.Len(t, long, 63)
	assert.True(t, strings.HasPrefix(long, strings.Repeat("a", 31)+"_"))
	assert.True(t, strings.HasSuffix(long, strings.Repeat("b", 31)))
}

func TestUniqueDBName(t *testing.T) {
	t.Parallel()

	a := uniqueDBName("testdb", "TestDebit")
	b := uniqueDBName("testdb", "TestDebit")

	assert.NotEqual(t, a, b, "random suffix")
	assert.Equal(t, a[:len("testdb_")+8], b[:len("testdb_")+8], "same test hashes alike")
	assert.True(t, strings.HasPrefix(a, "testdb_"))
}
