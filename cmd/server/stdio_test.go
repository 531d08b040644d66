package main

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// serverBinary locates a prebuilt server, from LCA_SERVER_BIN or bin/.
func serverBinary(t *testing.T) string {
	t.Helper()
	for _, path := range []string{os.Getenv("LCA_SERVER_BIN"), "../../bin/lcastudio-mcp"} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	t.Skip("server binary not found; build it to bin/lcastudio-mcp or set LCA_SERVER_BIN")
	return ""
}

func TestStdioServer(t *testing.T) {
	binary := serverBinary(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logPath := filepath.Join(t.TempDir(), "server.log")
	cmd := exec.CommandContext(ctx, binary)
	cmd.Env = append(os.Environ(),
		"LCA_DB_PATH=:memory:",
		"LCA_ASSIST_STAGE_DELAY=0s",
		"LCA_ASSIST_SEED=7",
		"LCA_LOG_LEVEL=debug",
		"LCA_LOG_PATH="+logPath,
		"LCA_EXPORT_DIR="+t.TempDir(),
	)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &sdkmcp.CommandTransport{Command: cmd}, nil)
	require.NoError(t, err)
	defer session.Close()

	t.Run("ServerInfo", func(t *testing.T) {
		info := session.InitializeResult()
		require.NotNil(t, info)
		require.Equal(t, "lcastudio", info.ServerInfo.Name)
	})

	t.Run("ListTools", func(t *testing.T) {
		tools, err := session.ListTools(ctx, nil)
		require.NoError(t, err)
		names := map[string]bool{}
		for _, tool := range tools.Tools {
			names[tool.Name] = true
		}
		for _, want := range []string{"list_projects", "start_form", "assist_fill", "form_next", "export_project"} {
			require.True(t, names[want], "missing tool %s", want)
		}
	})

	t.Run("ListProjects", func(t *testing.T) {
		res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: "list_projects", Arguments: map[string]any{}})
		require.NoError(t, err)
		require.False(t, res.IsError)
		text, ok := res.Content[0].(*sdkmcp.TextContent)
		require.True(t, ok)
		require.Contains(t, text.Text, "Green Copper Initiative")
	})

	t.Run("LogFile", func(t *testing.T) {
		data, err := os.ReadFile(logPath)
		require.NoError(t, err)
		require.Contains(t, string(data), "starting stdio transport")
	})
}
