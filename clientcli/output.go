package clientcli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/sagarc03/bucketctl"
	"github.com/sagarc03/bucketctl/config"
)

// Formatter formats results for output.
type Formatter interface {
	FormatList(w io.Writer, result *bucketctl.ListResult) error
	FormatUpload(w io.Writer, result *bucketctl.UploadResult) error
	FormatDelete(w io.Writer, result *bucketctl.DeleteResult) error
	FormatError(w io.Writer, err error) error
	FormatProfileList(w io.Writer, profiles []config.Profile, defaultName string, showSecrets bool) error
	FormatProfileShow(w io.Writer, profile config.Profile, isDefault, showSecrets bool) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet, long bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet, Long: long}
}

// HumanFormatter outputs human-readable text.
//
// Listings print one key per line unless Long is set, in which case a
// table with sizes and modification times is printed.
type HumanFormatter struct {
	Quiet bool
	Long  bool
}

// FormatList formats list results as human-readable text.
func (f *HumanFormatter) FormatList(w io.Writer, result *bucketctl.ListResult) error {
	if result.Scanned == 0 {
		_, _ = fmt.Fprintln(w, "No files found")
		return nil
	}

	if !f.Long {
		for i := range result.Items {
			_, _ = fmt.Fprintln(w, result.Items[i].Key)
		}
		return nil
	}

	if len(result.Items) == 0 {
		return nil
	}

	// Calculate column widths
	maxKeyLen := 3 // "KEY"
	for i := range result.Items {
		maxKeyLen = max(maxKeyLen, utf8.RuneCountInString(result.Items[i].Key))
	}
	if maxKeyLen > 60 {
		maxKeyLen = 60
	}

	_, _ = fmt.Fprintf(w, "%-*s  %10s  %s\n", maxKeyLen, "KEY", "SIZE", "LAST MODIFIED")
	_, _ = fmt.Fprintf(w, "%s  %s  %s\n", strings.Repeat("-", maxKeyLen), strings.Repeat("-", 10), strings.Repeat("-", 19))

	for i := range result.Items {
		item := &result.Items[i]
		_, _ = fmt.Fprintf(w, "%-*s  %10s  %s\n",
			maxKeyLen,
			truncate(item.Key, maxKeyLen),
			formatSize(item.Size),
			item.LastModified.Format("2006-01-02 15:04:05"),
		)
	}

	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "\n%d file(s) (%s total)\n", len(result.Items), formatSize(result.TotalSize()))
		if result.NextToken != "" {
			_, _ = fmt.Fprintln(w, "More results available: use --all to list every page")
		}
	}

	return nil
}

// FormatUpload formats an upload result as human-readable text.
func (f *HumanFormatter) FormatUpload(w io.Writer, result *bucketctl.UploadResult) error {
	_, _ = fmt.Fprintf(w, "File uploaded successfully: %s\n", result.Location)
	if !f.Quiet && f.Long {
		_, _ = fmt.Fprintf(w, "  Size: %s\n", formatSize(result.Size))
		_, _ = fmt.Fprintf(w, "  Content-Type: %s\n", result.ContentType)
		if result.ETag != "" {
			_, _ = fmt.Fprintf(w, "  ETag: %s\n", result.ETag)
		}
	}
	return nil
}

// FormatDelete formats a delete result as human-readable text.
func (f *HumanFormatter) FormatDelete(w io.Writer, result *bucketctl.DeleteResult) error {
	if len(result.Matched) == 0 {
		_, _ = fmt.Fprintln(w, "No files match the filter.")
		return nil
	}

	if result.DryRun {
		for _, key := range result.Matched {
			_, _ = fmt.Fprintf(w, "Would delete: %s\n", key)
		}
		_, _ = fmt.Fprintf(w, "%d file(s) would be deleted.\n", len(result.Matched))
		return nil
	}

	if result.Cancelled {
		_, _ = fmt.Fprintln(w, "Delete cancelled.")
		return nil
	}

	for i := range result.Outcomes {
		o := &result.Outcomes[i]
		if o.Err != nil {
			_, _ = fmt.Fprintf(w, "Error: %s - %v\n", o.Key, o.Err)
			continue
		}
		if !f.Quiet {
			_, _ = fmt.Fprintf(w, "Deleted: %s\n", o.Key)
		}
	}

	if len(result.Outcomes) == len(result.Matched) && len(result.Failed()) == 0 {
		_, _ = fmt.Fprintln(w, "Files deleted successfully.")
	}
	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// FormatProfileList formats a list of profiles as human-readable text.
func (f *HumanFormatter) FormatProfileList(w io.Writer, profiles []config.Profile, defaultName string, showSecrets bool) error {
	if len(profiles) == 0 {
		_, _ = fmt.Fprintln(w, "No profiles configured")
		return nil
	}

	maxNameLen := 4     // "NAME"
	maxEndpointLen := 8 // "ENDPOINT"
	for i := range profiles {
		maxNameLen = max(maxNameLen, utf8.RuneCountInString(profiles[i].Name))
		maxEndpointLen = max(maxEndpointLen, utf8.RuneCountInString(endpointLabel(profiles[i])))
	}
	maxNameLen = min(maxNameLen, 20)
	maxEndpointLen = min(maxEndpointLen, 50)

	_, _ = fmt.Fprintf(w, "  %-*s  %-*s  %-12s  %s\n", maxNameLen, "NAME", maxEndpointLen, "ENDPOINT", "REGION", "ACCESS KEY")
	_, _ = fmt.Fprintf(w, "  %s  %s  %s  %s\n",
		strings.Repeat("-", maxNameLen), strings.Repeat("-", maxEndpointLen), strings.Repeat("-", 12), strings.Repeat("-", 20))

	for i := range profiles {
		p := &profiles[i]
		marker := " "
		if p.Name == defaultName {
			marker = "*"
		}

		_, _ = fmt.Fprintf(w, "%s %-*s  %-*s  %-12s  %s\n",
			marker, maxNameLen, truncate(p.Name, maxNameLen), maxEndpointLen, truncate(endpointLabel(*p), maxEndpointLen), p.Region, maskSecret(p.AccessKey, showSecrets))
	}

	return nil
}

// FormatProfileShow formats a single profile as human-readable text.
func (f *HumanFormatter) FormatProfileShow(w io.Writer, profile config.Profile, isDefault, showSecrets bool) error {
	_, _ = fmt.Fprintf(w, "Name:       %s", profile.Name)
	if isDefault {
		_, _ = fmt.Fprintf(w, " (default)")
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Endpoint:   %s\n", endpointLabel(profile))
	_, _ = fmt.Fprintf(w, "Region:     %s\n", profile.Region)
	_, _ = fmt.Fprintf(w, "Path Style: %t\n", profile.PathStyle)
	_, _ = fmt.Fprintf(w, "Access Key: %s\n", maskSecret(profile.AccessKey, showSecrets))
	_, _ = fmt.Fprintf(w, "Secret Key: %s\n", maskSecret(profile.SecretKey, showSecrets))
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatList formats list results as JSON.
func (f *JSONFormatter) FormatList(w io.Writer, result *bucketctl.ListResult) error {
	out := *result
	if out.Items == nil {
		out.Items = []bucketctl.ObjectInfo{}
	}
	return writeJSON(w, out)
}

// FormatUpload formats an upload result as JSON.
func (f *JSONFormatter) FormatUpload(w io.Writer, result *bucketctl.UploadResult) error {
	return writeJSON(w, result)
}

// FormatDelete formats a delete result as JSON.
func (f *JSONFormatter) FormatDelete(w io.Writer, result *bucketctl.DeleteResult) error {
	// Convert errors to strings for JSON output
	type jsonOutcome struct {
		Key     string `json:"key"`
		Deleted bool   `json:"deleted"`
		Error   string `json:"error,omitempty"`
	}

	output := struct {
		Bucket    string        `json:"bucket"`
		Prefix    string        `json:"prefix"`
		Pattern   string        `json:"pattern"`
		Scanned   int           `json:"scanned"`
		Matched   []string      `json:"matched"`
		Results   []jsonOutcome `json:"results"`
		DryRun    bool          `json:"dry_run,omitempty"`
		Cancelled bool          `json:"cancelled,omitempty"`
	}{
		Bucket:    result.Bucket,
		Prefix:    result.Prefix,
		Pattern:   result.Pattern,
		Scanned:   result.Scanned,
		Matched:   result.Matched,
		Results:   make([]jsonOutcome, len(result.Outcomes)),
		DryRun:    result.DryRun,
		Cancelled: result.Cancelled,
	}
	if output.Matched == nil {
		output.Matched = []string{}
	}

	for i := range result.Outcomes {
		o := &result.Outcomes[i]
		jo := jsonOutcome{Key: o.Key, Deleted: o.Deleted}
		if o.Err != nil {
			jo.Error = o.Err.Error()
		}
		output.Results[i] = jo
	}

	return writeJSON(w, output)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

// FormatProfileList formats a list of profiles as JSON.
func (f *JSONFormatter) FormatProfileList(w io.Writer, profiles []config.Profile, defaultName string, showSecrets bool) error {
	output := struct {
		Profiles []jsonProfile `json:"profiles"`
	}{
		Profiles: make([]jsonProfile, len(profiles)),
	}

	for i := range profiles {
		output.Profiles[i] = newJSONProfile(profiles[i], profiles[i].Name == defaultName, showSecrets)
	}

	return writeJSON(w, output)
}

// FormatProfileShow formats a single profile as JSON.
func (f *JSONFormatter) FormatProfileShow(w io.Writer, profile config.Profile, isDefault, showSecrets bool) error {
	return writeJSON(w, newJSONProfile(profile, isDefault, showSecrets))
}

type jsonProfile struct {
	Name      string `json:"name"`
	Endpoint  string `json:"endpoint,omitempty"`
	Region    string `json:"region,omitempty"`
	PathStyle bool   `json:"path_style"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	Default   bool   `json:"default"`
}

func newJSONProfile(p config.Profile, isDefault, showSecrets bool) jsonProfile {
	return jsonProfile{
		Name:      p.Name,
		Endpoint:  p.Endpoint,
		Region:    p.Region,
		PathStyle: p.PathStyle,
		AccessKey: maskSecret(p.AccessKey, showSecrets),
		SecretKey: maskSecret(p.SecretKey, showSecrets),
		Default:   isDefault,
	}
}

// endpointLabel shows the AWS default when a profile has no custom endpoint.
func endpointLabel(p config.Profile) string {
	if p.Endpoint == "" {
		return "(aws)"
	}
	return p.Endpoint
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.1f TB", float64(bytes)/TB)
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// truncate shortens s to n runes, replacing the tail with "..." when it
// has to cut. fmt pads %-*s by runes, so widths are counted the same way.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// maskSecret masks a secret string, showing only first 4 and last 4 characters.
// If showSecrets is true, returns the original value.
func maskSecret(secret string, showSecrets bool) string {
	if showSecrets {
		return secret
	}
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 8 {
		return "********"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
