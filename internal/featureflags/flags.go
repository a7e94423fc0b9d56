// Package featureflags evaluates the FEATURE_FLAGS setting.
//
// The setting is a comma-separated list of name=value pairs, for example
// "live_feed=on,post_cache=off,image_resize=50%". Values are on/true/1,
// off/false/0, or a percentage rolled out deterministically per user.
package featureflags

import (
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// Flags known to the service.
const (
	LiveFeed    = "live_feed"
	PostCache   = "post_cache"
	ImageResize = "image_resize"
)

type Manager struct {
	flags map[string]string
}

func NewManager(raw string) *Manager {
	flags := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name, value = normalize(name), normalize(value)
		if name == "" || value == "" {
			continue
		}
		flags[name] = value
	}
	return &Manager{flags: flags}
}

// On reports whether a flag is on for everyone. Percentage rollouts only
// count as on at 100%.
func (m *Manager) On(name string) bool {
	return m.Enabled(name, 0)
}

// Enabled evaluates a flag for one user. Unknown flags are off.
func (m *Manager) Enabled(name string, userID uint) bool {
	pct := m.rollout(name)
	switch {
	case pct <= 0:
		return false
	case pct >= 100:
		return true
	case userID == 0:
		return false
	}
	return bucket(name, userID) < pct
}

// Reachable reports whether the flag is on for at least some users.
func (m *Manager) Reachable(name string) bool {
	return m.rollout(name) > 0
}

// rollout returns the share of users, 0 to 100, that see the flag.
func (m *Manager) rollout(name string) int {
	if m == nil {
		return 0
	}
	value, ok := m.flags[normalize(name)]
	if !ok {
		return 0
	}

	switch value {
	case "on", "true", "1":
		return 100
	case "off", "false", "0":
		return 0
	}

	pctRaw, isPct := strings.CutSuffix(value, "%")
	if !isPct {
		return 0
	}
	pct, err := strconv.Atoi(pctRaw)
	if err != nil || pct < 0 {
		return 0
	}
	return pct
}

// Raw returns a copy of the configured values.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.flags))
	for k, v := range m.flags {
		out[k] = v
	}
	return out
}

// Names lists configured flags in sorted order.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.flags))
	for name := range m.flags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot evaluates every configured flag for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.flags))
	for name := range m.flags {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func bucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(normalize(name) + ":" + strconv.FormatUint(uint64(userID), 10)))
	return int(h.Sum32() % 100)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
