// Package testutil builds view templates and plans shared by the package and
// system tests.
package testutil

import (
	"fmt"
	"strings"

	"github.com/vk/blockfold/internal/config"
)

// Bounds holds the 1-based marker lines of a region.
type Bounds struct {
	Line    int
	EndLine int
}

// Fixture is a generated view template with known region positions.
type Fixture struct {
	Lines     []string
	Bounds    map[string]Bounds
	Interiors map[string][]string
	// Order lists region labels in file order.
	Order []string
}

// Content renders the fixture the way it would sit on disk.
func (f *Fixture) Content() string {
	return strings.Join(f.Lines, "\n")
}

type builder struct {
	f *Fixture
}

func (b *builder) add(lines ...string) {
	b.f.Lines = append(b.f.Lines, lines...)
}

func (b *builder) region(label, indent string, body ...string) {
	start := len(b.f.Lines) + 1
	b.add(indent + "<script>")
	interior := make([]string, len(body))
	for i, l := range body {
		interior[i] = indent + "    " + l
	}
	b.add(interior...)
	b.add(indent + "</script>")
	b.f.Bounds[label] = Bounds{Line: start, EndLine: len(b.f.Lines)}
	b.f.Interiors[label] = interior
	b.f.Order = append(b.f.Order, label)
}

// SettingsView generates a settings page with eight inline script blocks.
// The first one is guarded by a PHP conditional and must survive untouched;
// the other seven are meant to be consolidated.
func SettingsView() *Fixture {
	b := &builder{f: &Fixture{
		Bounds:    make(map[string]Bounds),
		Interiors: make(map[string][]string),
	}}

	b.add(
		"<?= $this->extend('layouts/app') ?>",
		"<?= $this->section('content') ?>",
		`<div class="settings">`,
		"    <?php if (session()->getFlashdata('success')): ?>",
	)
	b.region("flash_dismiss", "    ",
		"document.querySelector('.flash .close').addEventListener('click', function () {",
		"    this.parentElement.remove();",
		"});",
	)
	b.add(
		"    <?php endif; ?>",
		`    <form id="general-settings">`,
		`        <input type="checkbox" id="whatsapp-toggle">`,
		"    </form>",
	)
	b.region("whatsapp", "        ",
		"const toggle = document.getElementById('whatsapp-toggle');",
		"toggle.addEventListener('change', onProviderChange);",
	)
	b.add(
		`    <section id="notification-templates">`,
		`        <button data-tab="email">Email</button>`,
		"    </section>",
	)
	b.region("templates", "        ",
		"function showTemplateTab(name) {",
		"    document.querySelectorAll('[data-tab]').forEach(toggleTab(name));",
		"}",
	)
	b.add(
		`    <section id="blocked-periods">`,
		"    </section>",
	)
	b.region("helpers", "        ",
		"function escapeHtml(s) {",
		"    return s.replace(/</g, '&lt;');",
		"}",
	)
	b.add("")
	b.region("blocked_periods", "        ",
		"const periods = [];",
		"renderPeriods(periods);",
	)
	b.add(
		"    </div>",
		"</div>",
		"",
	)
	b.region("main_init", "        ",
		"document.addEventListener('DOMContentLoaded', initSettingsApi);",
	)
	b.add("")
	b.region("time_format", "        ",
		"applyTimeFormat(document.getElementById('time-format').value);",
	)
	b.add("", "")
	b.region("database", "        ",
		"loadDatabaseTab();",
		"bindBackupButtons();",
	)
	b.add(
		"<?= $this->endSection() ?>",
		"",
	)
	return b.f
}

// SettingsSections lists the consolidated regions in presentation order with
// their headers.
var SettingsSections = []struct {
	Label  string
	Header string
}{
	{"helpers", "        // ─── Shared Helpers ─────────────────────────────────────"},
	{"whatsapp", "        // ─── WhatsApp Provider Toggle ───────────────────────────"},
	{"templates", "        // ─── Notification Template Tabs ─────────────────────────"},
	{"blocked_periods", "        // ─── Blocked Periods Structured UI ──────────────────────"},
	{"main_init", "        // ─── Main Settings API Init ─────────────────────────────"},
	{"time_format", "        // ─── Time Format Handler ────────────────────────────────"},
	{"database", "        // ─── Database Settings Tab ──────────────────────────────"},
}

// SettingsBanner is the banner placed under the consolidated opening marker.
var SettingsBanner = []string{
	"        // ═══════════════════════════════════════════════════════════",
	"        // Settings Page — Consolidated Script",
	"        // ═══════════════════════════════════════════════════════════",
}

// SettingsPlan builds the plan matching SettingsView, with positional
// assertions taken from the fixture.
func SettingsPlan(f *Fixture, target string) *config.Plan {
	ordinal := make(map[string]int, len(f.Order))
	for i, label := range f.Order {
		ordinal[label] = i + 1
	}
	ref := func(label string) config.RegionRef {
		return config.RegionRef{
			Label:   label,
			Ordinal: ordinal[label],
			Line:    f.Bounds[label].Line,
			EndLine: f.Bounds[label].EndLine,
		}
	}

	keep := ref("flash_dismiss")
	p := &config.Plan{
		Name:              "settings",
		Target:            target,
		OpenMarker:        config.DefaultOpenMarker,
		CloseMarker:       config.DefaultCloseMarker,
		Indent:            "        ",
		Banner:            append([]string(nil), SettingsBanner...),
		ExpectRegions:     len(f.Order),
		ExpectOpenMarkers: 2,
		Keep:              []*config.RegionRef{&keep},
	}
	for _, s := range SettingsSections {
		p.Sections = append(p.Sections, &config.Section{RegionRef: ref(s.Label), Header: s.Header})
	}
	return p
}

// SettingsPlanHCL renders SettingsPlan as an HCL plan file. The banner and the
// headers go through the indent template.
func SettingsPlanHCL(f *Fixture, target string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "target = %q\n", target)
	b.WriteString("indent = \"        \"\n")
	fmt.Fprintf(&b, "expect_regions = %d\n", len(f.Order))
	b.WriteString("expect_open_markers = 2\n")
	b.WriteString("banner = [\n")
	for _, l := range SettingsBanner {
		fmt.Fprintf(&b, "  \"${indent}%s\",\n", strings.TrimPrefix(l, "        "))
	}
	b.WriteString("]\n\n")

	fmt.Fprintf(&b, "keep \"flash_dismiss\" {\n  region = 1\n  line = %d\n  end_line = %d\n}\n\n",
		f.Bounds["flash_dismiss"].Line, f.Bounds["flash_dismiss"].EndLine)

	ordinal := make(map[string]int, len(f.Order))
	for i, label := range f.Order {
		ordinal[label] = i + 1
	}
	for _, s := range SettingsSections {
		bd := f.Bounds[s.Label]
		fmt.Fprintf(&b, "section %q {\n  region = %d\n  line = %d\n  end_line = %d\n  header = \"${indent}%s\"\n}\n\n",
			s.Label, ordinal[s.Label], bd.Line, bd.EndLine, strings.TrimPrefix(s.Header, "        "))
	}
	return b.String()
}
