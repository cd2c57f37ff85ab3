package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dusk-indust/usercrud/internal/userapi"
)

var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}

// writeUsers prints users in the requested format, preserving order.
func writeUsers(w io.Writer, format string, users []userapi.User) error {
	if format == "json" {
		if users == nil {
			users = []userapi.User{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(users)
	}
	formatUsersText(w, users)
	return nil
}

// formatUsersText formats users as aligned columns.
func formatUsersText(w io.Writer, users []userapi.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", u.ID, u.Name, u.Email)
	}
	tw.Flush()
}
