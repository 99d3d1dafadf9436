package analyzer

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"shortlist/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// SkillsWatcher reloads a SkillSet when its backing file changes
type SkillsWatcher struct {
	mu sync.RWMutex

	file        string
	skills      *SkillSet
	lastModTime time.Time

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}
	reloaded   func(count int)

	logger  *errors.Logger
	running bool
}

// NewSkillsWatcher creates a watcher for file feeding skills
func NewSkillsWatcher(file string, skills *SkillSet, debounceDelay time.Duration, logger *errors.Logger) *SkillsWatcher {
	if debounceDelay == 0 {
		debounceDelay = time.Second
	}
	if logger == nil {
		logger = errors.Discard()
	}

	return &SkillsWatcher{
		file:          file,
		skills:        skills,
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1),
		logger:        logger,
	}
}

// OnReload registers a callback invoked after each successful reload
func (sw *SkillsWatcher) OnReload(fn func(count int)) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	sw.reloaded = fn
}

// Start begins watching the skills file
func (sw *SkillsWatcher) Start() error {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.running {
		return fmt.Errorf("skills watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	sw.fsWatcher = watcher

	if stat, err := os.Stat(sw.file); err == nil {
		sw.lastModTime = stat.ModTime()
	} else if !os.IsNotExist(err) {
		_ = watcher.Close()
		return fmt.Errorf("failed to stat skills file %s: %w", sw.file, err)
	}

	// Watch the directory so atomic replacements (rename over) are seen
	dir := filepath.Dir(sw.file)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	sw.running = true
	go sw.watchLoop()

	sw.logger.Info("Skills file watcher started",
		"file", sw.file,
		"debounce_delay", sw.debounceDelay)
	return nil
}

// Stop stops the watcher
func (sw *SkillsWatcher) Stop() error {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if !sw.running {
		return nil
	}

	close(sw.stopChan)
	if sw.debounceTimer != nil {
		sw.debounceTimer.Stop()
	}

	sw.running = false
	if err := sw.fsWatcher.Close(); err != nil {
		sw.logger.LogError(err, "Failed to close file system watcher")
		return err
	}

	sw.logger.Info("Skills file watcher stopped")
	return nil
}

// IsRunning returns whether the watcher is active
func (sw *SkillsWatcher) IsRunning() bool {
	sw.mu.RLock()
	defer sw.mu.RUnlock()
	return sw.running
}

func (sw *SkillsWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-sw.fsWatcher.Events:
			if !ok {
				return
			}
			if sw.shouldProcessEvent(event) {
				sw.scheduleReload()
			}

		case err, ok := <-sw.fsWatcher.Errors:
			if !ok {
				return
			}
			sw.logger.LogError(err, "File watcher error")

		case <-sw.reloadChan:
			if sw.hasFileChanged() {
				sw.reload()
			}

		case <-sw.stopChan:
			return
		}
	}
}

func (sw *SkillsWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(sw.file) &&
		filepath.Base(event.Name) != filepath.Base(sw.file) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (sw *SkillsWatcher) hasFileChanged() bool {
	stat, err := os.Stat(sw.file)
	if err != nil {
		return false
	}

	sw.mu.Lock()
	defer sw.mu.Unlock()
	if stat.ModTime().After(sw.lastModTime) || sw.lastModTime.IsZero() {
		sw.lastModTime = stat.ModTime()
		return true
	}
	return false
}

// reload keeps the previous vocabulary if the new file cannot be read
func (sw *SkillsWatcher) reload() {
	skills, err := LoadSkillsFile(sw.file)
	if err != nil {
		sw.logger.LogError(err, "Failed to reload skills file, keeping previous vocabulary", "file", sw.file)
		return
	}

	sw.skills.Replace(skills)
	sw.logger.Info("Skills file reloaded", "file", sw.file, "skills", sw.skills.Len())

	sw.mu.RLock()
	callback := sw.reloaded
	sw.mu.RUnlock()
	if callback != nil {
		callback(sw.skills.Len())
	}
}

func (sw *SkillsWatcher) scheduleReload() {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.debounceTimer != nil {
		sw.debounceTimer.Stop()
	}

	sw.debounceTimer = time.AfterFunc(sw.debounceDelay, func() {
		select {
		case sw.reloadChan <- struct{}{}:
		default:
		}
	})
}
