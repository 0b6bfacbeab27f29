package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"e6dl/api"
	"github.com/rs/zerolog/log"
)

type SaverItem struct {
	Post *api.Post
	Data []byte
}

// Saver downloads every post of a search result with a fixed number of
// worker goroutines and writes the files to the output directory.
type Saver struct {
	saved  atomic.Int64
	failed atomic.Int64

	client *api.Client
	args   *AppArguments
}

func NewSaver(args *AppArguments, client *api.Client) *Saver {
	return &Saver{
		saved:  atomic.Int64{},
		failed: atomic.Int64{},
		client: client,
		args:   args,
	}
}

// Run performs the whole pipeline once: collect the post listing, then fan
// the downloads out over the worker pool. It returns only after every
// queued download has resolved.
//
// A listing error is fatal. A single download failing is logged and counted
// without disturbing its siblings; Run reports an error for the downloads
// only when every one of them failed.
func (s *Saver) Run(ctx context.Context) error {
	posts, err := s.collectPages(ctx)
	if err != nil {
		return err
	}

	if len(posts) == 0 {
		log.Warn().Msg("no posts to download")
		return nil
	}

	// The output directory only comes into existence once there is
	// something to put in it.
	if err := EnsureDir(s.args.OutDir); err != nil {
		return err
	}

	log.Info().
		Int("count", len(posts)).
		Str("dir", s.args.OutDir).
		Msg("found posts matching criteria, downloading")

	saveQueue := make(chan SaverItem, s.args.Concurrency)
	saverDone := make(chan struct{})
	go func() {
		defer close(saverDone)
		s.saveLoop(saveQueue)
	}()

	downloadQueue := make(chan *api.Post, len(posts))
	wg := new(sync.WaitGroup)
	for i := 0; i < s.args.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.downloadLoop(ctx, downloadQueue, saveQueue)
		}()
	}

	for i := range posts {
		downloadQueue <- &posts[i]
	}
	close(downloadQueue)

	wg.Wait()
	close(saveQueue)
	<-saverDone

	saved, failed := s.saved.Load(), s.failed.Load()
	log.Info().Int64("saved", saved).Int64("failed", failed).Msg("finished downloading")

	if failed > 0 && saved == 0 {
		return fmt.Errorf("all %d downloads failed", failed)
	}

	return nil
}

// collectPages gathers the post listing. With a single page this is exactly
// one request and any error is fatal. With multiple pages, a failed page is
// logged and skipped, and an empty page ends the collection early.
func (s *Saver) collectPages(ctx context.Context) ([]api.Post, error) {
	page, err := s.args.PageSelector()
	if err != nil {
		return nil, err
	}

	opts := &api.SearchOptions{
		Tags:  s.args.Tags,
		Limit: s.args.Limit,
		Page:  page,
	}

	if s.args.Pages <= 1 {
		log.Info().Str("page", page.String()).Msg("collecting posts")
		return s.client.Posts.Search(ctx, opts)
	}

	log.Info().
		Int("pages", s.args.Pages).
		Int("starting_page", page.Number).
		Msg("collecting posts from multiple pages")

	var all []api.Post
	for n := page.Number; n < page.Number+s.args.Pages; n++ {
		opts.Page = api.PageSelector{Number: n}

		posts, err := s.client.Posts.Search(ctx, opts)
		if err != nil {
			log.Err(err).Int("page", n).Msg("could not collect posts on page")
			continue
		}
		if len(posts) == 0 {
			log.Info().Int("page", n).Msg("no more posts, reached the end of the search results")
			break
		}

		all = append(all, posts...)
	}

	return all, nil
}

func (s *Saver) downloadLoop(ctx context.Context, downloadQueue <-chan *api.Post, saveQueue chan<- SaverItem) {
	for post := range downloadQueue {
		log.Info().Int("post_id", post.ID).Str("file", post.Filename()).Msg("downloading post")

		b, err := s.client.GetFile(ctx, post)
		if err != nil {
			log.Err(err).Int("post_id", post.ID).Msg("failed to download post")
			s.failed.Add(1)
			continue
		}

		saveQueue <- SaverItem{Post: post, Data: b}
	}
}

func (s *Saver) saveLoop(saveQueue <-chan SaverItem) {
	for item := range saveQueue {
		path := filepath.Join(s.args.OutDir, item.Post.Filename())

		if FileExists(path) {
			log.Debug().Str("path", path).Msg("overwriting existing file")
		}

		if err := WriteFileAtomic(path, item.Data); err != nil {
			log.Err(err).Int("post_id", item.Post.ID).Msg("failed to write file to disk")
			s.failed.Add(1)
		} else {
			s.saved.Add(1)
		}
	}
}
