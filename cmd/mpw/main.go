// Command mpw is the Master Password command-line interface: a stateless
// password manager that derives every site credential from the user's full
// name and master password, instead of storing it anywhere.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"

	"github.com/MidnightWonderer/MasterPassword/internal/algorithm"
	"github.com/MidnightWonderer/MasterPassword/internal/config"
	"github.com/MidnightWonderer/MasterPassword/internal/crypto"
	"github.com/MidnightWonderer/MasterPassword/internal/identicon"
	"github.com/MidnightWonderer/MasterPassword/internal/logger"
	"github.com/MidnightWonderer/MasterPassword/internal/marshal"
	"github.com/MidnightWonderer/MasterPassword/models"
)

// sysexits categories, matching the original tool's exit codes.
const (
	exitOK       = 0
	exitUsage    = 64
	exitData     = 65
	exitSoftware = 70
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Get()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	if cfg.Usage {
		printUsage(os.Stderr)
		return exitOK
	}

	log := logger.New(cfg.Verbosity)

	// Determine fullName, siteName & masterPassword.
	fullName := cfg.FullName
	if fullName == "" {
		fullName = promptLine("Your full name:")
	}
	if fullName == "" {
		log.Error().Msg("Missing full name.")
		return exitData
	}

	siteName := cfg.SiteName
	if siteName == "" {
		siteName = promptLine("Site name:")
	}
	if siteName == "" {
		log.Error().Msg("Missing site name.")
		return exitData
	}

	masterPassword := cfg.MasterPassword
	for masterPassword == "" {
		masterPassword = promptPassword("Your master password: ")
	}

	sitesFormat, err := cfg.ParseMarshalFormat()
	if err != nil {
		log.Error().Err(err).Msg("Invalid sites format.")
		return exitUsage
	}

	// Defaults, overridden by the profile and then by the command line.
	algorithmVersion := models.AlgorithmVersionCurrent
	resultType := models.ResultTypeDefault
	counter := models.CounterValueDefault
	redacted := true

	// Find and read the user's sites file.
	sitesPath, sitesData := findSitesFile(fullName, &sitesFormat, cfg.FormatFixed, log)

	var user *models.User
	var site *models.Site
	fileFormat := models.MarshalFormatNone
	if sitesData != nil {
		readFormat := sitesFormat
		if cfg.Format == "" {
			if info, err := marshal.ReadInfo(sitesData); err == nil {
				readFormat = info.Format
			}
		}
		fileFormat = readFormat

		user, err = marshal.Read(sitesData, readFormat, masterPassword)
		if errors.Is(err, marshal.ErrMasterPassword) {
			if !cfg.AllowPasswordUpdate {
				log.Error().Str("path", sitesPath).Err(err).
					Msg("Incorrect master password according to configuration.")
				return exitData
			}

			// Update the user's master password.
			for errors.Is(err, marshal.ErrMasterPassword) {
				fmt.Fprintln(os.Stderr, "Given master password does not match configuration.")
				fmt.Fprintln(os.Stderr, "To update the configuration with this new master password, first confirm the old master password.")

				oldPassword := ""
				for oldPassword == "" {
					oldPassword = promptPassword("Old master password: ")
				}
				user, err = marshal.Read(sitesData, readFormat, oldPassword)
			}
			if user != nil {
				user.MasterPassword = masterPassword
			}
		}
		if err != nil && user == nil {
			log.Error().Str("path", sitesPath).Err(err).Msg("Couldn't parse configuration file.")
		}

		if user != nil {
			// Load defaults from the profile.
			fullName = user.FullName
			masterPassword = user.MasterPassword
			algorithmVersion = user.Algorithm
			resultType = user.DefaultType
			redacted = user.Redacted

			if !redacted && cfg.Redacted == "" {
				log.Warn().Msg("Sites configuration is not redacted.  Use -R 1 to change this.")
			}

			if site = user.FindSite(siteName); site != nil {
				resultType = site.Type
				counter = site.Counter
				algorithmVersion = site.Algorithm
			}
		}
	}

	// Parse default/config-overriding command-line parameters.
	if cfg.Redacted != "" {
		redacted = cfg.Redacted == "1"
	}
	if cfg.Counter != "" {
		counter, err = models.ParseCounterValue(cfg.Counter)
		if err != nil {
			log.Error().Err(err).Msg("Invalid site counter.")
			return exitUsage
		}
	}
	if cfg.Algorithm != "" {
		algorithmVersion, err = models.ParseAlgorithmVersion(cfg.Algorithm)
		if err != nil {
			log.Error().Err(err).Msg("Invalid algorithm version.")
			return exitUsage
		}
	}

	purpose := models.KeyPurposeAuthentication
	if cfg.Purpose != "" {
		purpose, err = models.ParseKeyPurpose(cfg.Purpose)
		if err != nil {
			log.Error().Err(err).Msg("Invalid purpose.")
			return exitUsage
		}
	}
	purposeResult := "password"
	switch purpose {
	case models.KeyPurposeIdentification:
		resultType = purpose.DefaultResultType()
		purposeResult = "login"
	case models.KeyPurposeRecovery:
		resultType = purpose.DefaultResultType()
		purposeResult = "answer"
	}
	if cfg.ResultType != "" {
		resultType, err = models.ParseResultType(cfg.ResultType)
		if err != nil {
			log.Error().Err(err).Msg("Invalid type.")
			return exitUsage
		}
	}
	resultParam := cfg.ResultParam
	keyContext := cfg.Context

	// Operation summary.
	icon := identicon.New(fullName, masterPassword)
	log.Debug().
		Str("fullName", fullName).
		Str("sitesFormat", formatSummary(sitesFormat, cfg.FormatFixed)).
		Str("sitesPath", sitesPath).
		Str("siteName", siteName).
		Uint32("siteCounter", uint32(counter)).
		Str("resultType", resultType.Name()).
		Str("resultParam", resultParam).
		Str("keyPurpose", purpose.Name()).
		Str("keyContext", keyContext).
		Uint32("algorithmVersion", uint32(algorithmVersion)).
		Msg("derivation parameters")
	fmt.Fprintf(os.Stderr, "%s's %s for %s:\n[ %s ]: ", fullName, purposeResult, siteName, icon.Render())

	// Determine the master key.
	masterKey, err := algorithm.MasterKey(fullName, masterPassword, algorithmVersion)
	if err != nil {
		log.Error().Err(err).Msg("Couldn't derive master key.")
		return exitSoftware
	}
	defer crypto.Zero(masterKey)

	// Produce the result.
	switch {
	case purpose == models.KeyPurposeIdentification && site != nil && !site.LoginGenerated && site.LoginName != "":
		// The user's stored login, not a derived one.
		printResult(site.LoginName, cfg.Clipboard, log)

	case resultParam != "" && resultType.Class() == models.ResultTypeClassStateful:
		// Save new stateful content instead of deriving a credential.
		if site == nil && user != nil {
			site = user.AddSite(models.Site{
				Name:      siteName,
				Type:      resultType,
				Counter:   counter,
				Algorithm: algorithmVersion,
			})
		}
		if site == nil {
			log.Error().Msg("Couldn't save site content without a configuration file.")
			return exitData
		}
		site.Content = resultParam
		fmt.Fprintln(os.Stderr, "saved.")

	case resultType.Class() == models.ResultTypeClassStateful:
		// Reveal previously saved stateful content.
		if site == nil || site.Content == "" {
			log.Error().Msg("No saved content for this site.")
			return exitData
		}
		printResult(site.Content, cfg.Clipboard, log)

	default:
		result, err := algorithm.SiteResult(masterKey, siteName, counter,
			purpose, keyContext, resultType, resultParam, algorithmVersion)
		if err != nil {
			log.Error().Err(err).Msg("Couldn't generate site result.")
			return exitSoftware
		}
		printResult(result, cfg.Clipboard, log)
	}

	if site != nil && site.URL != "" {
		fmt.Fprintf(os.Stderr, "See: %s\n", site.URL)
	}

	// Update the sites file.
	if user != nil {
		updateUser(user, site, siteName, resultType, counter, algorithmVersion, purpose, keyContext)

		// A fixed format is honored; otherwise stay with the format of
		// the file that was read, defaulting for fresh profiles.
		if !cfg.FormatFixed {
			sitesFormat = fileFormat
			if sitesFormat == models.MarshalFormatNone {
				sitesFormat = models.MarshalFormatDefault
			}
		}
		user.Redacted = redacted

		writeSitesFile(user, sitesFormat, log)
	}

	return exitOK
}

// printResult hands the derived credential to the user: stdout always,
// the clipboard when asked for.
func printResult(result string, toClipboard bool, log *logger.Logger) {
	fmt.Fprintln(os.Stdout, result)

	if toClipboard {
		if err := clipboard.WriteAll(result); err != nil {
			log.Warn().Err(err).Msg("Couldn't copy the result to the clipboard.")
		}
	}
}

// updateUser records the outcome of this run on the profile: the touched
// site, its questions and the use counters.
func updateUser(user *models.User, site *models.Site, siteName string,
	resultType models.ResultType, counter models.CounterValue,
	algorithmVersion models.AlgorithmVersion, purpose models.KeyPurpose, keyContext string) {

	switch purpose {
	case models.KeyPurposeAuthentication:
		if !resultType.Has(models.SiteFeatureAlternative) {
			if site == nil {
				site = user.AddSite(models.Site{
					Name:      siteName,
					Type:      resultType,
					Counter:   counter,
					Algorithm: algorithmVersion,
				})
			} else {
				site.Type = resultType
				site.Counter = counter
				site.Algorithm = algorithmVersion
			}
		}

	case models.KeyPurposeIdentification:
		if site != nil && resultType.Class() == models.ResultTypeClassTemplate {
			site.LoginGenerated = true
		}

	case models.KeyPurposeRecovery:
		if site != nil && keyContext != "" && site.FindQuestion(keyContext) == nil {
			site.Questions = append(site.Questions, models.Question{
				Keyword: keyContext,
				Type:    models.ResultTypeTemplatePhrase,
			})
		}
	}

	if site != nil {
		now := time.Now().UTC()
		site.LastUsed = now
		user.LastUsed = now
		site.Uses++
	}
}

// findSitesFile locates and reads the user's profile, falling back from
// the wanted format to the flat format unless the format is fixed. The
// wanted format is updated to the format of the file actually found.
func findSitesFile(fullName string, format *models.MarshalFormat, fixed bool, log *logger.Logger) (string, []byte) {
	path, err := sitesPath(fullName, format.Extension())
	if err == nil {
		if data, readErr := os.ReadFile(path); readErr == nil {
			return path, data
		} else {
			log.Debug().Str("path", path).Err(readErr).Msg("Couldn't open configuration file.")
		}
	}

	if !fixed && *format != models.MarshalFormatFlat {
		flatPath, err := sitesPath(fullName, models.MarshalFormatFlat.Extension())
		if err == nil {
			if data, readErr := os.ReadFile(flatPath); readErr == nil {
				*format = models.MarshalFormatFlat
				return flatPath, data
			} else {
				log.Debug().Str("path", flatPath).Err(readErr).Msg("Couldn't open configuration file.")
			}
		}
	}

	return path, nil
}

// sitesPath is the profile location for a user: ~/.mpw.d/<fullName>.<ext>.
// The name component is cut at the first path separator.
func sitesPath(fullName, extension string) (string, error) {
	if extension == "" {
		return "", errors.New("format has no profile file")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	name := fullName
	for i := 0; i < len(name); i++ {
		if name[i] == '/' {
			name = name[:i]
			break
		}
	}

	return filepath.Join(home, ".mpw.d", name+"."+extension), nil
}

// writeSitesFile rewrites the profile in full. Failures are warnings; the
// existing profile is never deleted over them.
func writeSitesFile(user *models.User, format models.MarshalFormat, log *logger.Logger) {
	if format == models.MarshalFormatNone {
		return
	}

	path, err := sitesPath(user.FullName, format.Extension())
	if err != nil {
		log.Warn().Err(err).Msg("Couldn't determine updated configuration path.")
		return
	}
	log.Debug().Str("path", path).Str("format", format.Name()).Msg("Updating configuration.")

	data, err := marshal.Write(user, format)
	if err != nil {
		log.Warn().Str("path", path).Err(err).Msg("Couldn't encode updated configuration file.")
		return
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		log.Warn().Str("path", path).Err(err).Msg("Couldn't create configuration directory.")
		return
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		log.Warn().Str("path", path).Err(err).Msg("Error while writing updated configuration file.")
	}
}

// formatSummary spells the format for the debug summary.
func formatSummary(format models.MarshalFormat, fixed bool) string {
	if fixed {
		return format.Name() + " (fixed)"
	}

	return format.Name()
}
