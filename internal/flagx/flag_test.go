package flagx

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clientFlags is the set the CLI registers.
var clientFlags = []string{"-e", "-a", "-p", "-policy", "-t", "-db"}

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "client flags kept, emulator flags dropped",
			args: []string{"-a", "localhost:3200", "-s", "jwt-secret", "-p", "aora"},
			want: []string{"-a", "localhost:3200", "-p", "aora"},
		},
		{
			name: "equals form",
			args: []string{"-policy=replace", "-b=videos"},
			want: []string{"-policy=replace"},
		},
		{
			name: "trailing flag without value",
			args: []string{"-db"},
			want: []string{"-db"},
		},
		{
			name: "dash-led token is not taken as a value",
			args: []string{"-e", "-t", "30"},
			want: []string{"-e", "-t", "30"},
		},
		{
			name: "positional arguments ignored",
			args: []string{"login", "neo@matrix.io"},
			want: []string{},
		},
		{
			name: "repeated flag keeps both occurrences",
			args: []string{"-p", "one", "-p", "two"},
			want: []string{"-p", "one", "-p", "two"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, clientFlags))
		})
	}
}

func TestConfigFile(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"short", []string{"-c", "aora.json"}, "aora.json"},
		{"long equals among client flags", []string{"-a", "127.0.0.1:3200", "--config=/etc/aora.json"}, "/etc/aora.json"},
		{"last one wins", []string{"-c", "a.json", "-config", "b.json"}, "b.json"},
		{"absent", []string{"-p", "aora"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfigFile(tt.args))
		})
	}
}

func TestParseKnown_SharedArgList(t *testing.T) {
	args := []string{"-c", "aora.json", "-a", "rpc:3200", "--policy=replace", "-d", "postgres://x"}

	client := flag.NewFlagSet("aora", flag.ContinueOnError)
	client.SetOutput(io.Discard)
	rpc := client.String("a", "", "")
	policy := client.String("policy", "keep", "")
	require.NoError(t, ParseKnown(client, args))
	assert.Equal(t, "rpc:3200", *rpc)
	assert.Equal(t, "replace", *policy)

	server := flag.NewFlagSet("server", flag.ContinueOnError)
	server.SetOutput(io.Discard)
	dsn := server.String("d", "", "")
	require.NoError(t, ParseKnown(server, args))
	assert.Equal(t, "postgres://x", *dsn)
}
