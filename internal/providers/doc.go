// Package providers assembles the license provider chain.
//
// Each subpackage implements one license.Provider:
//   - github: license detected by the GitHub API for a repository
//   - gitlab: license detected by a GitLab instance for a project
//   - static: curated host and path rules loaded from YAML, TOML or JSON
//   - webpage: rel="license" links and Dublin Core metadata in HTML pages
//   - cached: memoising decorator used for the remote providers
//
// Order matters: the first provider that can process a URI answers for it,
// whether or not it finds a license.
//
// Example Usage:
//
//	registry, err := providers.BuildRegistry(cfg, providers.Deps{Logger: logger, Observer: metrics})
//	service := license.NewService(registry, logger)
package providers
