package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/sagarc03/bucketctl/config"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Manage connection profiles",
	Long: `Manage connection profiles in the profiles file.

Profiles save the endpoint, region and credentials of an S3-compatible
service. Select one with --profile or BUCKETCTL_PROFILE; settings given
by flags or environment variables still take precedence.

Profiles are stored in ~/.bucketctl/config.yaml unless --profiles-file is set.`,
}

var configureListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configured profiles",
	Long: `List all profiles configured in the profiles file.

The default profile is marked with an asterisk (*).`,
	Args: cobra.NoArgs,
	RunE: runConfigureList,
}

var configureAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new profile",
	Long: `Add a new profile interactively.

You will be prompted for:
  - Endpoint URL (empty for AWS)
  - Region
  - Access key
  - Secret key
  - Whether to use path-style addressing
  - Whether to set as default

A custom endpoint is tested before saving.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigureAdd,
}

var configureRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a profile",
	Args:    cobra.ExactArgs(1),
	RunE:    runConfigureRemove,

	ValidArgsFunction: completeProfileArg,
}

var configureSetDefaultCmd = &cobra.Command{
	Use:   "set-default <name>",
	Short: "Set the default profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigureSetDefault,

	ValidArgsFunction: completeProfileArg,
}

var configureShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show profile details",
	Long: `Show details for a profile.

If no name is provided, shows the default profile.
Secrets are hidden by default; use --show-secrets to reveal them.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigureShow,

	ValidArgsFunction: completeProfileArg,
}

var showSecrets bool

func init() {
	configureCmd.AddCommand(configureListCmd)
	configureCmd.AddCommand(configureAddCmd)
	configureCmd.AddCommand(configureRemoveCmd)
	configureCmd.AddCommand(configureSetDefaultCmd)
	configureCmd.AddCommand(configureShowCmd)

	configureShowCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "show secret values")
	configureListCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "show secret values")
}

func runConfigureList(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	file, err := config.LoadOrEmpty(cfg.ProfilesFile)
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(file.Profiles) == 0 && !cfg.Output.JSON {
		_, _ = fmt.Fprintln(out, "No profiles configured.")
		_, _ = fmt.Fprintln(out, "Run 'bucketctl configure add <name>' to create one.")
		return nil
	}

	defaultName := ""
	if p, err := file.GetDefaultProfile(); err == nil {
		defaultName = p.Name
	}

	return getFormatter(cfg, false).FormatProfileList(out, file.Profiles, defaultName, showSecrets)
}

func runConfigureAdd(cmd *cobra.Command, args []string) error {
	name := args[0]
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	file, err := config.LoadOrEmpty(cfg.ProfilesFile)
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}

	existing, _ := file.GetProfile(name)
	if existing != nil {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("Profile '%s' already exists. Update it", name),
			IsConfirm: true,
		}
		if _, promptErr := prompt.Run(); promptErr != nil {
			fmt.Println("Cancelled.")
			return nil //nolint:nilerr // User cancelled, not an error
		}
	}

	endpointPrompt := promptui.Prompt{
		Label:    "Endpoint URL (empty for AWS)",
		Validate: validateEndpoint,
	}
	endpointURL, err := endpointPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	regionPrompt := promptui.Prompt{
		Label:   "Region",
		Default: "us-east-1",
	}
	region, err := regionPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	accessKeyPrompt := promptui.Prompt{
		Label: "Access Key",
	}
	accessKeyVal, err := accessKeyPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	secretKeyPrompt := promptui.Prompt{
		Label: "Secret Key",
		Mask:  '*',
	}
	secretKeyVal, err := secretKeyPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	pathStyle := false
	if endpointURL != "" {
		pathStylePrompt := promptui.Prompt{
			Label:     "Use path-style addressing",
			IsConfirm: true,
		}
		if _, promptErr := pathStylePrompt.Run(); promptErr == nil {
			pathStyle = true
		}
	}

	setAsDefault := false
	if len(file.Profiles) == 0 {
		setAsDefault = true // First profile is always default
	} else {
		defaultPrompt := promptui.Prompt{
			Label:     "Set as default profile",
			IsConfirm: true,
		}
		if _, promptErr := defaultPrompt.Run(); promptErr == nil {
			setAsDefault = true
		}
	}

	if endpointURL != "" {
		fmt.Print("Testing connection... ")
		if connErr := testEndpointConnection(cmd.Context(), endpointURL); connErr != nil {
			fmt.Println("FAILED")
			fmt.Printf("Warning: Could not connect to endpoint: %v\n", connErr)

			continuePrompt := promptui.Prompt{
				Label:     "Save profile anyway",
				IsConfirm: true,
			}
			if _, promptErr := continuePrompt.Run(); promptErr != nil {
				fmt.Println("Cancelled.")
				return nil //nolint:nilerr // User cancelled, not an error
			}
		} else {
			fmt.Println("OK")
		}
	}

	profile := config.Profile{
		Name:      name,
		Endpoint:  strings.TrimSuffix(endpointURL, "/"),
		Region:    region,
		AccessKey: accessKeyVal,
		SecretKey: secretKeyVal,
		PathStyle: pathStyle,
		Default:   setAsDefault,
	}

	if existing != nil {
		err = file.UpdateProfile(profile)
	} else {
		err = file.AddProfile(profile)
	}
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	if err := file.Save(cfg.ProfilesFile); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}

	if existing != nil {
		fmt.Printf("Profile '%s' updated.\n", name)
	} else {
		fmt.Printf("Profile '%s' added.\n", name)
	}
	if setAsDefault {
		fmt.Printf("Set as default profile.\n")
	}

	return nil
}

func runConfigureRemove(cmd *cobra.Command, args []string) error {
	name := args[0]
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	file, err := config.LoadConfigFile(cfg.ProfilesFile)
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}

	if _, err = file.GetProfile(name); err != nil {
		return err
	}

	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("Remove profile '%s'", name),
		IsConfirm: true,
	}
	if _, promptErr := prompt.Run(); promptErr != nil {
		fmt.Println("Cancelled.")
		return nil //nolint:nilerr // User cancelled, not an error
	}

	if err := file.RemoveProfile(name); err != nil {
		return fmt.Errorf("remove profile: %w", err)
	}

	if err := file.Save(cfg.ProfilesFile); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}

	fmt.Printf("Profile '%s' removed.\n", name)
	return nil
}

func runConfigureSetDefault(cmd *cobra.Command, args []string) error {
	name := args[0]
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	file, err := config.LoadConfigFile(cfg.ProfilesFile)
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}

	if err := file.SetDefault(name); err != nil {
		return err
	}

	if err := file.Save(cfg.ProfilesFile); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Default profile set to '%s'.\n", name)
	return nil
}

func runConfigureShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	file, err := config.LoadConfigFile(cfg.ProfilesFile)
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	p, err := file.GetProfile(name)
	if err != nil {
		return err
	}

	isDefault := name == ""
	if def, defErr := file.GetDefaultProfile(); defErr == nil && def.Name == p.Name {
		isDefault = true
	}

	return getFormatter(cfg, false).FormatProfileShow(cmd.OutOrStdout(), *p, isDefault, showSecrets)
}

func validateEndpoint(input string) error {
	if input == "" {
		return nil
	}
	parsedURL, err := url.Parse(input)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.New("URL must start with http:// or https://")
	}
	if parsedURL.Host == "" {
		return errors.New("URL must include a host")
	}
	return nil
}

// testEndpointConnection reports whether anything answers HTTP at the
// endpoint. Any response, including 403, counts as reachable.
func testEndpointConnection(ctx context.Context, endpointURL string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	return nil
}

// handlePromptError handles promptui errors.
func handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) {
		fmt.Println("\nCancelled.")
		os.Exit(0)
	}
	if errors.Is(err, promptui.ErrAbort) {
		fmt.Println("Cancelled.")
		return nil
	}
	return err
}
