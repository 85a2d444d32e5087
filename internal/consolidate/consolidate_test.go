package consolidate

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/blockfold/internal/config"
	"github.com/vk/blockfold/internal/document"
	"github.com/vk/blockfold/internal/testutil"
)

func applySettings(t *testing.T) (*testutil.Fixture, *config.Plan, *Result) {
	t.Helper()
	f := testutil.SettingsView()
	plan := testutil.SettingsPlan(f, "settings.php")
	require.NoError(t, plan.Validate())

	res, err := Apply(context.Background(), plan, document.Parse(f.Content()))
	require.NoError(t, err)
	return f, plan, res
}

func indexOf(lines []string, want string) int {
	for i, l := range lines {
		if l == want {
			return i
		}
	}
	return -1
}

func TestApply_LeavesTwoScriptBlocks(t *testing.T) {
	_, plan, res := applySettings(t)

	assert.Equal(t, 2, res.Output.Count("<script>"))
	assert.Equal(t, 2, res.Output.Count("</script>"))
	assert.NoError(t, Verify(plan, res.Output))
}

func TestApply_CRLFDocumentKeepsOneLineEnding(t *testing.T) {
	f, plan, lf := applySettings(t)
	crlf := strings.ReplaceAll(f.Content(), "\n", "\r\n")

	res, err := Apply(context.Background(), plan, document.Parse(crlf))
	require.NoError(t, err)

	out := res.Output.String()
	assert.Equal(t, strings.Count(out, "\n"), strings.Count(out, "\r\n"), "every line ends in CRLF")
	assert.Equal(t, strings.ReplaceAll(lf.Output.String(), "\n", "\r\n"), out)
	assert.NoError(t, Verify(plan, res.Output))
}

func TestApply_SectionsInPresentationOrder(t *testing.T) {
	f, _, res := applySettings(t)
	out := res.Output.Lines()

	prev := -1
	for _, s := range testutil.SettingsSections {
		at := indexOf(out, s.Header)
		require.GreaterOrEqual(t, at, 0, "header for %s missing", s.Label)
		require.Greater(t, at, prev, "header for %s out of order", s.Label)

		interior := f.Interiors[s.Label]
		got := out[at+1 : at+1+len(interior)]
		if diff := cmp.Diff(interior, got); diff != "" {
			t.Fatalf("interior of %s (-want +got):\n%s", s.Label, diff)
		}
		prev = at
	}

	// File order had whatsapp before helpers; the block puts helpers first.
	assert.Less(t, indexOf(out, testutil.SettingsSections[0].Header), indexOf(out, testutil.SettingsSections[1].Header))
	require.Len(t, res.Sections, len(testutil.SettingsSections))
	assert.Equal(t, "helpers", res.Sections[0].Label)
	assert.Equal(t, 4, res.Sections[0].Ordinal)
	assert.Equal(t, 3, res.Sections[0].Lines)
}

func TestApply_KeepGapsUnchanged(t *testing.T) {
	f, _, res := applySettings(t)
	text := res.Output.String()

	gaps := [][]string{
		f.Lines[:f.Bounds["whatsapp"].Line-1],
		f.Lines[f.Bounds["whatsapp"].EndLine : f.Bounds["templates"].Line-1],
		f.Lines[f.Bounds["templates"].EndLine : f.Bounds["helpers"].Line-1],
		f.Lines[f.Bounds["blocked_periods"].EndLine : f.Bounds["main_init"].Line-1],
		f.Lines[f.Bounds["database"].EndLine:],
	}

	pos := 0
	for i, gap := range gaps {
		chunk := strings.Join(gap, "\n")
		at := strings.Index(text[pos:], chunk)
		require.GreaterOrEqual(t, at, 0, "gap %d missing or out of order:\n%s", i, chunk)
		pos += at + len(chunk)
	}
}

func TestApply_ExcludedRegionUntouched(t *testing.T) {
	f, _, res := applySettings(t)

	b := f.Bounds["flash_dismiss"]
	// The guarding conditional sits right around the region.
	guarded := strings.Join(f.Lines[b.Line-2:b.EndLine+1], "\n")
	require.True(t, strings.HasPrefix(guarded, "    <?php if"))
	require.True(t, strings.HasSuffix(guarded, "<?php endif; ?>"))

	assert.Contains(t, res.Output.String(), guarded)
	assert.Equal(t, f.Lines[:b.EndLine+1], res.Output.Lines()[:b.EndLine+1])
}

func TestApply_BlockReplacesLastSelectedRegion(t *testing.T) {
	f, _, res := applySettings(t)
	out := res.Output.Lines()

	open := indexOf(out, "        <script>")
	require.Greater(t, open, 0)
	// The markup between blocked periods and main init stays above the block.
	assert.Equal(t, []string{"    </div>", "</div>", ""}, out[open-3:open])
	// The block ends right before the markup that followed the last region.
	end := open + len(res.Block) - 1
	assert.Equal(t, "        </script>", out[end])
	assert.Equal(t, f.Lines[f.Bounds["database"].EndLine:], out[end+1:])
	assert.Equal(t, res.Block, out[open:end+1])
}

func TestApply_LineCountIdentity(t *testing.T) {
	f, plan, res := applySettings(t)

	removedRegions := 0
	interiors := 0
	for _, s := range testutil.SettingsSections {
		b := f.Bounds[s.Label]
		removedRegions += b.EndLine - b.Line + 1
		interiors += len(f.Interiors[s.Label])
	}
	// Blank gaps absorbed: helpers|blocked (1), main|time (1), time|database (2).
	absorbed := 4
	sections := len(plan.Sections)
	added := 1 + len(plan.Banner) + sections /* blank separators */ + sections /* headers */ + interiors + 1

	assert.Equal(t, removedRegions+absorbed, res.Removed)
	assert.Equal(t, added, res.Added)
	assert.Equal(t, len(f.Lines)-res.Removed+res.Added, res.Output.Len())
}

func TestApply_PreserveBlankGaps(t *testing.T) {
	f := testutil.SettingsView()
	plan := testutil.SettingsPlan(f, "settings.php")
	plan.PreserveBlankGaps = true

	res, err := Apply(context.Background(), plan, document.Parse(f.Content()))
	require.NoError(t, err)

	_, _, collapsed := applySettings(t)
	assert.Equal(t, collapsed.Output.Len()+4, res.Output.Len())
	assert.Equal(t, len(f.Lines)-res.Removed+res.Added, res.Output.Len())
}

func TestApply_MutatedMarkerAborts(t *testing.T) {
	cases := map[string]func(f *testutil.Fixture){
		"opening marker replaced": func(f *testutil.Fixture) {
			f.Lines[f.Bounds["templates"].Line-1] = "        <div>"
		},
		"closing marker replaced": func(f *testutil.Fixture) {
			f.Lines[f.Bounds["time_format"].EndLine-1] = "        </div>"
		},
		"line inserted above": func(f *testutil.Fixture) {
			f.Lines = append([]string{"<!-- edited -->"}, f.Lines...)
		},
		"extra block appended": func(f *testutil.Fixture) {
			f.Lines = append(f.Lines, "<script>", "late();", "</script>")
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := testutil.SettingsView()
			plan := testutil.SettingsPlan(f, "settings.php")
			mutate(f)

			res, err := Apply(context.Background(), plan, document.Parse(f.Content()))
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrBoundaryMismatch)

			var be *BoundaryError
			require.ErrorAs(t, err, &be)
			assert.NotEmpty(t, be.Mismatches)
			assert.Equal(t, "settings.php", be.Path)
		})
	}
}

func TestApply_SecondRunAborts(t *testing.T) {
	_, plan, res := applySettings(t)

	_, err := Apply(context.Background(), plan, res.Output)
	require.ErrorIs(t, err, ErrBoundaryMismatch)
	assert.Contains(t, err.Error(), "expected 8 regions, got 2")
}

func TestApply_Assertions(t *testing.T) {
	content := strings.Join([]string{
		"<p>",                  // 1
		"<script>",             // 2
		"one();",               // 3
		"</script>",            // 4
		"<script>x()</script>", // 5
		"<script>",             // 6
		"two();",               // 7
		"</script>",            // 8
	}, "\n")
	base := func() *config.Plan {
		return &config.Plan{
			Name:        "small",
			Target:      "small.html",
			OpenMarker:  "<script>",
			CloseMarker: "</script>",
			Keep:        []*config.RegionRef{{Label: "inline", Ordinal: 2}},
			Sections: []*config.Section{
				{RegionRef: config.RegionRef{Label: "two", Ordinal: 3, Anchor: "two()"}, Header: "// two"},
				{RegionRef: config.RegionRef{Label: "one", Ordinal: 1, Line: 2, EndLine: 4}, Header: "// one"},
			},
		}
	}

	t.Run("valid", func(t *testing.T) {
		res, err := Apply(context.Background(), base(), document.Parse(content))
		require.NoError(t, err)
		want := []string{
			"<p>",
			"<script>x()</script>",
			"<script>",
			"// two",
			"two();",
			"",
			"// one",
			"one();",
			"</script>",
		}
		if diff := cmp.Diff(want, res.Output.Lines()); diff != "" {
			t.Fatalf("output (-want +got):\n%s", diff)
		}
	})

	failures := map[string]struct {
		mutate func(p *config.Plan)
		want   string
	}{
		"wrong start line": {
			func(p *config.Plan) { p.Sections[1].Line = 3 },
			`one: line 3: expected "<script>", got "one();" (region opens at line 2)`,
		},
		"wrong end line past eof": {
			func(p *config.Plan) { p.Sections[1].EndLine = 40 },
			`one: line 40: expected "</script>", got end of file (region closes at line 4)`,
		},
		"anchor missing": {
			func(p *config.Plan) { p.Sections[0].Anchor = "three()" },
			`two: line 6: expected interior containing "three()", got no match`,
		},
		"region out of range": {
			func(p *config.Plan) { p.Sections[0].Ordinal = 9 },
			"two: expected region 9 to exist, got 3 regions",
		},
		"unlisted region": {
			func(p *config.Plan) { p.Keep = nil },
			"line 5: expected every region listed as keep or section, got unlisted region 2",
		},
		"inline section": {
			func(p *config.Plan) {
				p.Keep = []*config.RegionRef{{Label: "two", Ordinal: 3}}
				p.Sections[0] = &config.Section{RegionRef: config.RegionRef{Label: "inline", Ordinal: 2}, Header: "// inline"}
			},
			"inline: line 5: expected a multi-line region, got both markers on one line",
		},
		"region count": {
			func(p *config.Plan) { p.ExpectRegions = 4 },
			"expected 4 regions, got 3",
		},
	}
	for name, tc := range failures {
		t.Run(name, func(t *testing.T) {
			p := base()
			tc.mutate(p)
			_, err := Apply(context.Background(), p, document.Parse(content))
			require.ErrorIs(t, err, ErrBoundaryMismatch)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestApply_EmptyRegionContributesHeaderOnly(t *testing.T) {
	doc := document.Parse("<script>\n</script>\n<script>\nb();\n</script>")
	plan := &config.Plan{
		Name:        "empty",
		Target:      "empty.html",
		OpenMarker:  "<script>",
		CloseMarker: "</script>",
		Sections: []*config.Section{
			{RegionRef: config.RegionRef{Label: "empty", Ordinal: 1}, Header: "// empty"},
			{RegionRef: config.RegionRef{Label: "b", Ordinal: 2}, Header: "// b"},
		},
	}

	res, err := Apply(context.Background(), plan, doc)

	require.NoError(t, err)
	want := []string{"<script>", "// empty", "", "// b", "b();", "</script>"}
	if diff := cmp.Diff(want, res.Output.Lines()); diff != "" {
		t.Fatalf("output (-want +got):\n%s", diff)
	}
	assert.Equal(t, 0, res.Sections[0].Lines)
}

func TestApply_UnbalancedMarkersAreBoundaryErrors(t *testing.T) {
	plan := &config.Plan{
		Target:      "x.html",
		OpenMarker:  "<script>",
		CloseMarker: "</script>",
		Sections:    []*config.Section{{RegionRef: config.RegionRef{Label: "a", Ordinal: 1}}},
	}
	_, err := Apply(context.Background(), plan, document.Parse("<script>\nlost();"))
	require.ErrorIs(t, err, ErrBoundaryMismatch)
	assert.Contains(t, err.Error(), "opening marker is never closed")
}

func TestVerify(t *testing.T) {
	plan := &config.Plan{Target: "x.html", OpenMarker: "<script>", ExpectOpenMarkers: 2}

	require.NoError(t, Verify(plan, document.Parse("<script>\n</script>\n<script>\n</script>")))

	err := Verify(plan, document.Parse("<script>\n</script>\nvar s = '<script>';\n<script>\n</script>"))
	require.ErrorIs(t, err, ErrConsistency)
	assert.NotErrorIs(t, err, ErrBoundaryMismatch)

	var w *ConsistencyWarning
	require.ErrorAs(t, err, &w)
	assert.Equal(t, 2, w.Expected)
	assert.Equal(t, 3, w.Got)
}
