package splash

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/bodgit/splash/bitmap"
	"github.com/bodgit/splash/catalog"
)

const numWorkers = 4

var errWalkCancelled = errors.New("splash: walk cancelled")

func walkContainers(ctx context.Context, base string, out chan<- string) error {
	return filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Skip dot files and directories below base, .Trashes, .git and so on
		if info.Name()[0] == '.' && file != base {
			if info.Mode().IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		// A container is a regular file holding at least a header page
		if !info.Mode().IsRegular() || info.Size() < int64(len(zeroPage)) {
			return nil
		}

		select {
		case out <- file:
		case <-ctx.Done():
			return errWalkCancelled
		}

		return nil
	})
}

func (s *Splash) scanFile(file string) ([]catalog.Entry, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s.logger.Printf("Scanning \"%s\"\n", file)

	var entries []catalog.Entry
	_, err = s.Extract(f, func(b *Block, m *bitmap.Bitmap) error {
		entries = append(entries, catalog.Entry{
			Path:     file,
			Index:    b.Index,
			Position: b.Position,
			Width:    b.Header.Width,
			Height:   b.Header.Height,
			Mode:     b.Header.Mode,
			Pages:    b.Header.Pages,
			CRC:      CRC(m),
		})
		return nil
	})
	return entries, err
}

// scanContainers scans each file received on in and sends its blocks on out.
// Each file is owned by this worker until it has been scanned.
func (s *Splash) scanContainers(ctx context.Context, in <-chan string, out chan<- catalog.Entry) error {
	for file := range in {
		entries, err := s.scanFile(file)
		if err != nil {
			return err
		}

		for _, e := range entries {
			select {
			case out <- e:
			case <-ctx.Done():
				return nil
			}
		}
	}
	return nil
}

// Index walks the directory tree at path and records every decodable block
// of every file in cat. Files are scanned concurrently but each by a single
// worker, and only the calling goroutine writes to cat.
func (s *Splash) Index(path string, cat *catalog.Catalog) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	// Room for the walker and every worker to fail without blocking
	errc := make(chan error, numWorkers+1)
	fail := func(err error) {
		errc <- err
		cancelFunc()
	}

	files := make(chan string)
	walked := make(chan struct{})
	go func() {
		defer close(walked)
		defer close(files)
		if err := walkContainers(ctx, dir, files); err != nil {
			fail(err)
		}
	}()

	entries := make(chan catalog.Entry)
	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func() {
			defer wg.Done()
			if err := s.scanContainers(ctx, files, entries); err != nil {
				fail(err)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(entries)
	}()

	for e := range entries {
		if err != nil {
			continue
		}
		if err = cat.Add(e); err != nil {
			cancelFunc()
		}
	}
	<-walked

	if err != nil {
		return err
	}

	// The first failure is queued ahead of any cancellation it caused
	select {
	case err = <-errc:
		return err
	default:
		return nil
	}
}
