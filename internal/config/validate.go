package config

import (
	"regexp"
	"strings"
	"time"

	"github.com/mrz1836/shipyard/internal/constants"
	"github.com/mrz1836/shipyard/internal/errors"
)

// targetCodePattern restricts codes to what can be embedded unambiguously in
// a tag ("<code>-v1.2.3") and a commit token ("[<code>-skip-tests]").
var targetCodePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - at least one target; codes unique, alphanumeric and not "skip-tests"
//   - every target names a product
//   - bundle and test commands are set; all timeouts are positive
//   - docs command is set and at least one format is listed
//   - publish backend is "dir" with a root, or "s3" with endpoint and bucket;
//     the endpoint is a bare host[:port]
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateTargets(cfg.Targets); err != nil {
		return err
	}

	if err := validateCommands(cfg); err != nil {
		return err
	}

	if err := validateDocsConfig(&cfg.Docs); err != nil {
		return err
	}

	return validatePublishConfig(&cfg.Publish)
}

func validateTargets(targets []TargetConfig) error {
	if len(targets) == 0 {
		return errors.Wrap(errors.ErrConfigInvalidTargets, "at least one target must be configured")
	}

	seen := make(map[string]struct{}, len(targets))
	for i, t := range targets {
		if !targetCodePattern.MatchString(t.Code) {
			return errors.Wrapf(errors.ErrConfigInvalidTargets,
				"targets[%d].code must be alphanumeric, got %q", i, t.Code)
		}
		if strings.EqualFold(t.Code, strings.ReplaceAll(constants.SkipTestsToken, "-", "")) {
			return errors.Wrapf(errors.ErrConfigInvalidTargets,
				"targets[%d].code %q is reserved", i, t.Code)
		}
		if _, dup := seen[t.Code]; dup {
			return errors.Wrapf(errors.ErrConfigInvalidTargets,
				"duplicate target code %q", t.Code)
		}
		seen[t.Code] = struct{}{}

		if strings.TrimSpace(t.Product) == "" {
			return errors.Wrapf(errors.ErrConfigInvalidTargets,
				"targets[%d].product must not be empty", i)
		}
	}
	return nil
}

func validateCommands(cfg *Config) error {
	if strings.TrimSpace(cfg.Bundle.Command) == "" {
		return errors.Wrap(errors.ErrConfigInvalidCommand, "bundle.command must not be empty")
	}
	if strings.TrimSpace(cfg.Test.Command) == "" {
		return errors.Wrap(errors.ErrConfigInvalidCommand, "test.command must not be empty")
	}

	timeouts := []struct {
		key string
		d   time.Duration
	}{
		{"provision.timeout", cfg.Provision.Timeout},
		{"bundle.timeout", cfg.Bundle.Timeout},
		{"test.timeout", cfg.Test.Timeout},
		{"docs.timeout", cfg.Docs.Timeout},
	}
	for _, t := range timeouts {
		if t.d <= 0 {
			return errors.Wrapf(errors.ErrConfigInvalidCommand,
				"%s must be positive, got %s", t.key, t.d)
		}
	}
	return nil
}

func validateDocsConfig(cfg *DocsConfig) error {
	if strings.TrimSpace(cfg.Command) == "" {
		return errors.Wrap(errors.ErrConfigInvalidDocs, "docs.command must not be empty")
	}
	if len(cfg.Formats) == 0 {
		return errors.Wrap(errors.ErrConfigInvalidDocs, "docs.formats must list at least one format")
	}
	for i, f := range cfg.Formats {
		if strings.TrimSpace(f) == "" || strings.ContainsAny(f, `/\`) {
			return errors.Wrapf(errors.ErrConfigInvalidDocs,
				"docs.formats[%d] is not a valid format name: %q", i, f)
		}
	}
	return nil
}

func validatePublishConfig(cfg *PublishConfig) error {
	switch cfg.Backend {
	case PublishBackendDir:
		if strings.TrimSpace(cfg.Root) == "" {
			return errors.Wrap(errors.ErrInvalidPublishBackend, "publish.root must not be empty for the dir backend")
		}
	case PublishBackendS3:
		if cfg.Endpoint == "" || cfg.Bucket == "" {
			return errors.Wrap(errors.ErrInvalidPublishBackend, "publish.endpoint and publish.bucket are required for the s3 backend")
		}
		if strings.Contains(cfg.Endpoint, "://") || strings.Contains(cfg.Endpoint, "/") {
			return errors.Wrapf(errors.ErrInvalidPublishBackend,
				"publish.endpoint must be host[:port] without scheme or path (use publish.use_ssl for https), got %q", cfg.Endpoint)
		}
		if cfg.Concurrency < 1 {
			return errors.Wrapf(errors.ErrInvalidPublishBackend,
				"publish.concurrency must be at least 1, got %d", cfg.Concurrency)
		}
	default:
		return errors.Wrapf(errors.ErrInvalidPublishBackend,
			"publish.backend must be %q or %q, got %q", PublishBackendDir, PublishBackendS3, cfg.Backend)
	}
	return nil
}
