package extract

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"goal-level-extractor/internal/logging"
	"goal-level-extractor/internal/objfile"
	"goal-level-extractor/internal/texture"
)

// Batch holds the shared, read-only inputs for one extraction run. Every
// worker reads from the same DB and TexDB; each archive gets its own Level
// and artifact path, so workers share no mutable state.
type Batch struct {
	DB               *objfile.DB
	TexDB            *texture.Database
	CommonArchive    string
	LevelArchives    []string
	Hacks            map[string][][2]int
	DumpLevels       bool
	ExtractCollision bool
	OutputDir        string
	Workers          int
}

// ExtractAllLevels runs the full batch: the texture identity pre-flight,
// the common archive synchronously, then every level archive across a
// fixed-size worker pool with join-all semantics. The first fatal error
// aborts the batch after the pool drains; skipped archives do not.
func ExtractAllLevels(cfg Batch) error {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	// Content-addressing sanity check over the whole database, once,
	// before any archive is touched.
	if err := cfg.TexDB.ConfirmIdentical(); err != nil {
		return err
	}

	if err := ExtractCommon(cfg.DB, cfg.TexDB, cfg.CommonArchive, cfg.DumpLevels, cfg.OutputDir); err != nil {
		return err
	}

	total := len(cfg.LevelArchives)
	errs := make([]error, total)
	var processed atomic.Int64
	start := time.Now()

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					logging.Info("batch progress",
						logging.Int("done", int(p)), logging.Int("total", total),
						logging.Float("archives_per_sec", rate))
				}
			}
		}
	}()

	idxChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range idxChan {
				errs[idx] = ExtractFromLevel(cfg.DB, cfg.TexDB, cfg.LevelArchives[idx],
					cfg.Hacks, cfg.DumpLevels, cfg.ExtractCollision, cfg.OutputDir)
				processed.Add(1)
			}
		}()
	}

	for i := range cfg.LevelArchives {
		idxChan <- i
	}
	close(idxChan)
	wg.Wait()
	close(done)

	return errors.Join(errs...)
}
