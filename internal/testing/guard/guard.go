package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("BRIGHTPATH_TEST_MODE") == "" {
			_ = os.Setenv("BRIGHTPATH_TEST_MODE", "1")
		}
	})
}
