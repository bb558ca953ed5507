package watcher

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/slidescope/slidescope/internal/ingest"
)

// settleDelay is how long a file must stay quiet before it is ingested.
// Copies into the inbox arrive as a burst of write events.
const settleDelay = 2 * time.Second

// Watcher monitors the inbox directory and ingests video files dropped
// into it.
type Watcher struct {
	inboxDir string
	ingestor *ingest.Ingestor
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	pending  map[string]*time.Timer
	stop     chan struct{}
}

func New(inboxDir string, ingestor *ingest.Ingestor) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		inboxDir: inboxDir,
		ingestor: ingestor,
		watcher:  fw,
		pending:  make(map[string]*time.Timer),
		stop:     make(chan struct{}),
	}, nil
}

// Start watches the inbox and ingests anything already sitting there.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.inboxDir); err != nil {
		return err
	}
	go w.eventLoop()
	go w.sweepExisting()
	log.Printf("[watcher] watching inbox %s", w.inboxDir)
	return nil
}

func (w *Watcher) Stop() {
	close(w.stop)
	w.watcher.Close()
}

// sweepExisting picks up files that were dropped while the service was
// down.
func (w *Watcher) sweepExisting() {
	entries, err := os.ReadDir(w.inboxDir)
	if err != nil {
		log.Printf("[watcher] inbox sweep: %v", err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		w.schedule(filepath.Join(w.inboxDir, entry.Name()))
	}
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[watcher] error: %v", err)
		case <-w.stop:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	w.schedule(event.Name)
}

// schedule (re)arms the settle timer for a candidate file. Each write
// event pushes ingestion back until the file stops changing.
func (w *Watcher) schedule(path string) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, ".tmp") ||
		strings.HasSuffix(base, ".part") {
		return
	}
	if !ingest.IsVideoExt(strings.ToLower(filepath.Ext(path))) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.ingestFile(path)
	})
}

func (w *Watcher) ingestFile(path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	video, err := w.ingestor.IngestFile(path, "", "", uuid.Nil)
	if err != nil {
		log.Printf("[watcher] ingest %s: %v", filepath.Base(path), err)
		return
	}
	log.Printf("[watcher] ingested %s as %s", filepath.Base(path), video.ID)
}
