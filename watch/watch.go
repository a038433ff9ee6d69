package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch revalidates the project whenever a .quest file under dirs is
// written or created. It blocks until ctx is cancelled.
func Watch(ctx context.Context, root string, dirs []string, check func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, dir := range dirs {
		path := filepath.Join(root, dir)
		if _, err := os.Stat(path); err == nil {
			if err := watcher.Add(path); err != nil {
				return err
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if strings.HasSuffix(event.Name, ".quest") && (event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create) {
				fmt.Printf("File changed: %s\n", event.Name)
				if err := check(); err != nil {
					fmt.Printf("Validation failed: %v\n", err)
				} else {
					fmt.Println("Validation complete")
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Printf("Watcher error: %v\n", err)
		}
	}
}
