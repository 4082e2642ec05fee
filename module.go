package ceibadl

import (
	"bytes"
	"sort"
)

// Module is the key of one course sub-section, as used in the portal's
// default_fun parameter and navigation panel.
type Module string

// Known course modules.
const (
	ModuleBulletin Module = "bulletin"
	ModuleSyllabus Module = "syllabus"
	ModuleHomework Module = "hw"
	ModuleInfo     Module = "info"
	ModulePersonal Module = "personal"
	ModuleGrade    Module = "grade"
	ModuleBoard    Module = "board"
	ModuleCalendar Module = "calendar"
	ModuleShare    Module = "share"
	ModuleVote     Module = "vote"
	ModuleStudent  Module = "student"

	// ModuleLogout is the navigation panel's logout entry. It is never fetched.
	ModuleLogout Module = "logout"
)

// Modules returns every known module in panel order.
func Modules() []Module {
	return []Module{
		ModuleBulletin, ModuleSyllabus, ModuleHomework, ModuleInfo,
		ModulePersonal, ModuleGrade, ModuleBoard, ModuleCalendar,
		ModuleShare, ModuleVote, ModuleStudent,
	}
}

// Label returns the portal's display label for the module.
// Unknown modules are labelled with their key.
func (m Module) Label() string {
	switch m {
	case ModuleBulletin:
		return "公佈欄"
	case ModuleSyllabus:
		return "課程大綱"
	case ModuleHomework:
		return "作業"
	case ModuleInfo:
		return "課程資訊"
	case ModulePersonal:
		return "教師資訊"
	case ModuleGrade:
		return "學習成績"
	case ModuleBoard:
		return "討論看板"
	case ModuleCalendar:
		return "課程行事曆"
	case ModuleShare:
		return "資源分享"
	case ModuleVote:
		return "投票區"
	case ModuleStudent:
		return "修課學生"
	}
	return string(m)
}

// Known reports whether m is one of the fixed course modules.
func (m Module) Known() bool {
	for _, k := range Modules() {
		if k == m {
			return true
		}
	}
	return false
}

// HardExcluded reports whether the module is never fetched regardless of
// any filter.
func (m Module) HardExcluded() bool {
	return m == ModuleLogout || m == ModuleCalendar
}

// ModuleFilter restricts which discovered modules are fetched.
// A nil filter allows every module except the hard-excluded ones.
type ModuleFilter map[Module]struct{}

// ParseModuleFilter builds a filter from module keys. An empty list
// returns a nil filter. Unknown keys are rejected.
func ParseModuleFilter(keys []string) (ModuleFilter, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	f := make(ModuleFilter, len(keys))
	for _, k := range keys {
		m := Module(k)
		if !m.Known() {
			return nil, Errorf(EINVALID, "unknown module %q", k)
		}
		f[m] = struct{}{}
	}
	return f, nil
}

// NewModuleFilter builds a filter containing exactly the given modules.
// No modules gives a nil filter.
func NewModuleFilter(modules ...Module) ModuleFilter {
	if len(modules) == 0 {
		return nil
	}
	f := make(ModuleFilter, len(modules))
	for _, m := range modules {
		f[m] = struct{}{}
	}
	return f
}

// Allows reports whether the module should be fetched.
func (f ModuleFilter) Allows(m Module) bool {
	if m.HardExcluded() {
		return false
	}
	if f == nil {
		return true
	}
	_, ok := f[m]
	return ok
}

// Len returns the number of requested modules, or zero for a nil filter.
func (f ModuleFilter) Len() int {
	return len(f)
}

// Keys returns the filter's modules sorted by key.
func (f ModuleFilter) Keys() []Module {
	keys := make([]Module, 0, len(f))
	for m := range f {
		keys = append(keys, m)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// DisabledMarkers are phrases the portal renders in place of a module page
// when the module is turned off for the course or has nothing assigned.
var DisabledMarkers = []string{
	"此功能並未開啟",
	"目前無指派作業",
}

// IsDisabledPage reports whether a module page body says the module is disabled.
func IsDisabledPage(body []byte) bool {
	for _, marker := range DisabledMarkers {
		if bytes.Contains(body, []byte(marker)) {
			return true
		}
	}
	return false
}
