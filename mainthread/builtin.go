package mainthread

import (
	"github.com/loonghao/auroraview-sub000/mainthread/backend"
	"github.com/loonghao/auroraview-sub000/mainthread/backend/blender"
	"github.com/loonghao/auroraview-sub000/mainthread/backend/direct"
	"github.com/loonghao/auroraview-sub000/mainthread/backend/houdini"
	"github.com/loonghao/auroraview-sub000/mainthread/backend/max"
	"github.com/loonghao/auroraview-sub000/mainthread/backend/maya"
	"github.com/loonghao/auroraview-sub000/mainthread/backend/nuke"
	"github.com/loonghao/auroraview-sub000/mainthread/backend/qt"
	"github.com/loonghao/auroraview-sub000/mainthread/backend/unreal"
)

// Builtins is the default backend catalogue: every known host adapter at
// its tier, the generic toolkit adapter below the host threshold, and the
// always-available direct fallback at the bottom. Seeded lazily by the
// registry on first resolution.
func Builtins() []backend.Registration {
	return []backend.Registration{
		{Spec: maya.Spec(), Priority: backend.PriorityMaya},
		{Spec: nuke.Spec(), Priority: backend.PriorityNuke},
		{Spec: houdini.Spec(), Priority: backend.PriorityHoudini},
		{Spec: blender.Spec(), Priority: backend.PriorityBlender},
		{Spec: max.Spec(), Priority: backend.PriorityMax},
		{Spec: unreal.Spec(), Priority: backend.PriorityUnreal},
		{Spec: qt.Spec(), Priority: backend.PriorityQt},
		{Spec: direct.Spec(), Priority: backend.PriorityFallback},
	}
}
