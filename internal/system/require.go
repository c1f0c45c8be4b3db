package system

import "github.com/l1jgo/arena/internal/core/ecs"

type requirement func(*ecs.Registry, *ecs.BaseSystem) error

// require applies each component requirement to s in order.
func require(reg *ecs.Registry, s *ecs.BaseSystem, reqs ...requirement) error {
	for _, req := range reqs {
		if err := req(reg, s); err != nil {
			return err
		}
	}
	return nil
}
