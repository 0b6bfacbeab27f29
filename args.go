package main

import (
	"fmt"

	"e6dl/api"
)

type AppArguments struct {
	Tags         []string `arg:"positional" help:"tags to search for, space-separated"`
	Concurrency  int      `arg:"-c,--concurrency" default:"5" help:"maximum number of concurrent downloads"`
	Limit        int      `arg:"-l,--limit" default:"10" help:"maximum number of posts to retrieve per page (hard limit of 320)"`
	OutDir       string   `arg:"-o,--out" default:"./out" help:"directory to write the downloaded posts to"`
	Page         string   `arg:"-p,--page" default:"1" help:"page to retrieve, or \"a\"/\"b\" + post id for posts after/before that post"`
	Pages        int      `arg:"--pages" default:"1" help:"maximum number of pages to download, starting at --page"`
	SFW          bool     `arg:"-s,--sfw" help:"download posts from e926 instead of e621"`
	PrintVersion bool     `arg:"-V,--version" help:"print version and exit"`
}

// PageSelector parses the raw page argument.
func (a *AppArguments) PageSelector() (api.PageSelector, error) {
	return api.ParsePageSelector(a.Page)
}

// Validate checks the numeric ranges and the page selector syntax. It is
// called before any network activity so that bad arguments never trigger a
// request.
func (a *AppArguments) Validate() error {
	if len(a.Tags) == 0 {
		return fmt.Errorf("you must provide at least one tag to search for")
	}
	if a.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}
	if a.Limit < 1 || a.Limit > api.MaxPageSize {
		return fmt.Errorf("limit must be between 1 and %d", api.MaxPageSize)
	}
	if a.Pages < 1 {
		return fmt.Errorf("pages must be at least 1")
	}

	page, err := a.PageSelector()
	if err != nil {
		return err
	}
	if a.Pages > 1 && page.Cursored() {
		return fmt.Errorf("the page argument must be numeric when downloading multiple pages; before/after syntax is not supported")
	}

	return nil
}
