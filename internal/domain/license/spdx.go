package license

import (
	"net/url"
	"strings"
)

// canonical maps lower-cased license keys and common names to SPDX IDs.
var canonical = map[string]string{
	"mit":                "MIT",
	"mit license":        "MIT",
	"apache-2.0":         "Apache-2.0",
	"apache 2.0":         "Apache-2.0",
	"apache license 2.0": "Apache-2.0",
	"gpl-2.0":            "GPL-2.0",
	"gpl-2.0-only":       "GPL-2.0-only",
	"gpl-2.0-or-later":   "GPL-2.0-or-later",
	"gpl-3.0":            "GPL-3.0",
	"gpl-3.0-only":       "GPL-3.0-only",
	"gpl-3.0-or-later":   "GPL-3.0-or-later",
	"lgpl-2.1":           "LGPL-2.1",
	"lgpl-3.0":           "LGPL-3.0",
	"agpl-3.0":           "AGPL-3.0",
	"bsd-2-clause":       "BSD-2-Clause",
	"bsd-3-clause":       "BSD-3-Clause",
	"bsl-1.0":            "BSL-1.0",
	"mpl-2.0":            "MPL-2.0",
	"epl-1.0":            "EPL-1.0",
	"epl-2.0":            "EPL-2.0",
	"eupl-1.2":           "EUPL-1.2",
	"isc":                "ISC",
	"unlicense":          "Unlicense",
	"wtfpl":              "WTFPL",
	"zlib":               "Zlib",
	"cc0-1.0":            "CC0-1.0",
	"cc-by-3.0":          "CC-BY-3.0",
	"cc-by-4.0":          "CC-BY-4.0",
	"cc-by-sa-3.0":       "CC-BY-SA-3.0",
	"cc-by-sa-4.0":       "CC-BY-SA-4.0",
	"cc-by-nc-4.0":       "CC-BY-NC-4.0",
	"cc-by-nd-4.0":       "CC-BY-ND-4.0",
	"cc-by-nc-sa-4.0":    "CC-BY-NC-SA-4.0",
	"cc-by-nc-nd-4.0":    "CC-BY-NC-ND-4.0",
	"odbl-1.0":           "ODbL-1.0",
	"odc-by-1.0":         "ODC-By-1.0",
	"pddl-1.0":           "PDDL-1.0",
}

// NormalizeSPDX returns the SPDX spelling of key when it is known and the
// trimmed key otherwise.
func NormalizeSPDX(key string) string {
	key = strings.TrimSpace(key)
	if id, ok := canonical[strings.ToLower(key)]; ok {
		return id
	}
	return key
}

// FromLicenseURL maps a well-known license URL to its SPDX ID.
func FromLicenseURL(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	segments := PathSegments(u)
	if len(segments) == 0 {
		return "", false
	}

	switch host {
	case "creativecommons.org":
		return fromCreativeCommons(segments)
	case "opensource.org", "choosealicense.com":
		if len(segments) >= 2 && segments[0] == "licenses" {
			key := strings.TrimSuffix(segments[1], ".php")
			key = strings.TrimSuffix(key, "-license")
			return LookupSPDX(key)
		}
	case "spdx.org":
		if len(segments) >= 2 && segments[0] == "licenses" {
			key := strings.TrimSuffix(strings.TrimSuffix(segments[1], ".html"), ".json")
			return LookupSPDX(key)
		}
	case "apache.org":
		if len(segments) >= 2 && segments[0] == "licenses" && strings.EqualFold(segments[1], "LICENSE-2.0") {
			return "Apache-2.0", true
		}
	case "gnu.org":
		if len(segments) >= 2 && segments[0] == "licenses" {
			key := segments[1]
			if i := strings.Index(key, ".html"); i >= 0 {
				key = key[:i]
			}
			key = strings.TrimSuffix(key, ".en")
			return LookupSPDX(key)
		}
	}
	return "", false
}

func fromCreativeCommons(segments []string) (string, bool) {
	if len(segments) >= 3 && segments[0] == "publicdomain" && segments[1] == "zero" {
		return "CC0-" + segments[2], true
	}
	if len(segments) >= 3 && segments[0] == "licenses" {
		id := "CC-" + strings.ToUpper(segments[1]) + "-" + segments[2]
		return id, true
	}
	return "", false
}

// LookupSPDX reports the SPDX ID for a license key or common name.
func LookupSPDX(key string) (string, bool) {
	id, ok := canonical[strings.ToLower(strings.TrimSpace(key))]
	return id, ok
}
