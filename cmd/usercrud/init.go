package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// mcpServersKey holds the server map in .mcp.json. Other top-level keys are
// carried through untouched.
const mcpServersKey = "mcpServers"

// mcpEntryName is the key of the usercrud server in .mcp.json.
const mcpEntryName = "usercrud"

// usercrudMCPEntry is the MCP server configuration for the usercrud binary.
var usercrudMCPEntry = json.RawMessage(`{
  "type": "stdio",
  "command": "usercrud",
  "args": ["mcp"]
}`)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Register the usercrud MCP server in .mcp.json",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving project root: %w", err)
			}
			return mergeMCPConfig(cmd.OutOrStdout(), filepath.Join(abs, ".mcp.json"), force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing usercrud entry")
	return cmd
}

// mergeMCPConfig creates or merges the usercrud entry into .mcp.json,
// leaving other servers and top-level keys untouched.
func mergeMCPConfig(w io.Writer, mcpPath string, force bool) error {
	cfg := make(map[string]json.RawMessage)
	servers := make(map[string]json.RawMessage)

	data, err := os.ReadFile(mcpPath)
	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", mcpPath, err)
		}
		if cfg == nil {
			cfg = make(map[string]json.RawMessage)
		}
		if raw, ok := cfg[mcpServersKey]; ok {
			if err := json.Unmarshal(raw, &servers); err != nil {
				return fmt.Errorf("parsing %s %s: %w", mcpPath, mcpServersKey, err)
			}
			if servers == nil {
				servers = make(map[string]json.RawMessage)
			}
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("reading %s: %w", mcpPath, err)
	}

	if _, exists := servers[mcpEntryName]; exists && !force {
		fmt.Fprintf(w, "skipped .mcp.json %s entry (exists, use --force to overwrite)\n", mcpEntryName)
		return nil
	}

	servers[mcpEntryName] = usercrudMCPEntry
	rawServers, err := json.Marshal(servers)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", mcpServersKey, err)
	}
	cfg[mcpServersKey] = rawServers

	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling .mcp.json: %w", err)
	}

	if err := os.WriteFile(mcpPath, append(out, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", mcpPath, err)
	}

	action := "created"
	if data != nil {
		action = "updated"
	}
	fmt.Fprintf(w, "%s .mcp.json with %s MCP server\n", action, mcpEntryName)
	return nil
}
