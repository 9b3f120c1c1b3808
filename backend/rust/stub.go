//go:build !rust

package rust

import "github.com/gogpu/gsk/backend"

func init() {
	backend.Register(backend.BackendRust, func() backend.RenderBackend {
		return nil
	})
}
