package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/cli/api"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/cli/config"
)

// JSON prints v as indented JSON.
func JSON(w io.Writer, v interface{}) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// FileTable prints one catalogue page followed by a page footer.
func FileTable(w io.Writer, page api.CataloguePage) {
	if len(page.Files) == 0 {
		fmt.Fprintln(w, "No files found.")
	} else {
		tw := newTable(w)
		fmt.Fprintln(tw, "ID\tNAME\tSIZE\tOWNER\tUPLOADED")
		for _, f := range page.Files {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", f.ID, f.Name, FormatSize(f.Size), ownerName(f.Owner), RelativeTime(f.CreatedAt))
		}
		tw.Flush()
	}

	if page.TotalPages > 0 {
		fmt.Fprintf(w, "Page %d of %d (%d files)\n", page.CurrentPage, page.TotalPages, page.TotalFiles)
	}
}

// FileDetail prints a single file's details.
func FileDetail(w io.Writer, f api.File) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Name:\t%s\n", f.Name)
	fmt.Fprintf(tw, "ID:\t%s\n", f.ID)
	fmt.Fprintf(tw, "Description:\t%s\n", f.Description)
	fmt.Fprintf(tw, "File:\t%s\n", f.FileName)
	fmt.Fprintf(tw, "Type:\t%s\n", f.ContentType)
	fmt.Fprintf(tw, "Size:\t%s\n", FormatSize(f.Size))
	fmt.Fprintf(tw, "Owner:\t%s\n", ownerName(f.Owner))
	fmt.Fprintf(tw, "URL:\t%s\n", f.StorageURL)
	if f.ThumbnailURL != nil {
		fmt.Fprintf(tw, "Thumbnail:\t%s\n", *f.ThumbnailURL)
	}
	fmt.Fprintf(tw, "Created:\t%s\n", f.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(tw, "Modified:\t%s\n", f.UpdatedAt.Format(time.RFC3339))
	tw.Flush()
}

func UserTable(w io.Writer, users []api.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users found.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tROLE\tJOINED")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s\t%s\n", u.ID, u.Email, u.FirstName, u.LastName, u.Role, RelativeTime(u.CreatedAt))
	}
	tw.Flush()
}

// UserInfo prints user details.
func UserInfo(w io.Writer, u api.User) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "Name:\t%s %s\n", u.FirstName, u.LastName)
	fmt.Fprintf(tw, "Role:\t%s\n", u.Role)
	fmt.Fprintf(tw, "ID:\t%s\n", u.ID)
	tw.Flush()
}

// RoleCapabilities lists what the server lets role do. Unknown roles get
// the public catalogue only.
func RoleCapabilities(role string) []string {
	caps := []string{"browse and download models"}
	switch role {
	case "manager":
		caps = append(caps,
			"upload models",
			"edit and delete your own models",
			"list users and change non-admin accounts",
		)
	case "admin":
		caps = append(caps,
			"upload models",
			"edit and delete any model",
			"list users and change any other account",
			"assign the admin role",
		)
	}
	return caps
}

func Capabilities(w io.Writer, role string) {
	fmt.Fprintf(w, "As %s you can:\n", role)
	for _, c := range RoleCapabilities(role) {
		fmt.Fprintf(w, "  - %s\n", c)
	}
}

// Settings prints the stored CLI configuration. The token is never shown.
func Settings(w io.Writer, path string, cfg config.Config) {
	pageSize := "server default"
	if cfg.PageSize > 0 {
		pageSize = fmt.Sprintf("%d", cfg.PageSize)
	}
	session := "logged out"
	if cfg.HasToken() {
		session = "logged in"
		if cfg.Email != "" {
			session += " as " + cfg.Email
		}
	}

	tw := newTable(w)
	fmt.Fprintf(tw, "Config:\t%s\n", path)
	fmt.Fprintf(tw, "Server:\t%s\n", cfg.ServerURL)
	fmt.Fprintf(tw, "Page size:\t%s\n", pageSize)
	fmt.Fprintf(tw, "Session:\t%s\n", session)
	tw.Flush()
}

func ownerName(o *api.Owner) string {
	if o == nil {
		return "-"
	}
	name := strings.TrimSpace(o.FirstName + " " + o.LastName)
	if name == "" {
		return o.ID
	}
	return name
}

// FormatSize converts bytes to a human-readable string.
func FormatSize(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

// RelativeTime formats a timestamp relative to now (e.g. "2h ago", "3d ago").
func RelativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}
