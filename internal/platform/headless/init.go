package headless

import "github.com/mj1618/a11y-bridge/internal/platform"

func init() {
	platform.NewAdapterFunc = platform.NewHeadlessAdapter
}
