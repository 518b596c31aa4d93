package main

import "testing"

func TestParseFlagsBasic(t *testing.T) {
	args := []string{"-doc", "doc.txt", "-requests", "reqs.json", "-base", "1", "-fuzzy", "-producer", "gen"}
	cfg, err := parseFlags(args)
	if err != nil {
		t.Fatalf("parseFlags error: %v", err)
	}
	if cfg.docPath != "doc.txt" {
		t.Fatalf("docPath got %q", cfg.docPath)
	}
	if cfg.base != 1 || !cfg.baseSet {
		t.Fatalf("base got %d (set=%v)", cfg.base, cfg.baseSet)
	}
	if !cfg.fuzzy || !cfg.fuzzySet {
		t.Fatalf("fuzzy got %v (set=%v)", cfg.fuzzy, cfg.fuzzySet)
	}
	if cfg.producer != "gen" {
		t.Fatalf("producer got %q", cfg.producer)
	}
}

func TestParseFlagsMissingDoc(t *testing.T) {
	if _, err := parseFlags([]string{"-requests", "reqs.json"}); err == nil {
		t.Fatalf("expected error for missing -doc")
	}
}

func TestParseFlagsRenderNeedsNoRequests(t *testing.T) {
	if _, err := parseFlags([]string{"-doc", "doc.txt", "-render"}); err != nil {
		t.Fatalf("render mode should not require -requests: %v", err)
	}
}

func TestParseFlagsRejectsBadBase(t *testing.T) {
	if _, err := parseFlags([]string{"-doc", "d", "-requests", "r", "-base", "2"}); err == nil {
		t.Fatalf("expected error for -base 2")
	}
}

func TestParseRequestsUnionShape(t *testing.T) {
	good := []byte(`[
		{"lineSnippet": {"startLine": 0, "endLine": 0, "startCharacters": "ab", "endCharacters": "cd"}},
		{"freeText": {"searchText": "hello", "context": "greeting"}}
	]`)
	reqs, err := parseRequests(good)
	if err != nil {
		t.Fatalf("parseRequests error: %v", err)
	}
	if len(reqs) != 2 || reqs[0].LineSnippet == nil || reqs[1].FreeText == nil {
		t.Fatalf("unexpected requests: %+v", reqs)
	}

	both := []byte(`[{"lineSnippet": {"startLine": 0, "endLine": 0, "startCharacters": "a", "endCharacters": "b"}, "freeText": {"searchText": "x"}}]`)
	if _, err := parseRequests(both); err == nil {
		t.Fatalf("expected error for request with both variants")
	}
	neither := []byte(`[{}]`)
	if _, err := parseRequests(neither); err == nil {
		t.Fatalf("expected error for empty request")
	}
}
