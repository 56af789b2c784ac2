package voxeloctree

import (
	"fmt"
	"strings"
	"time"
)

// Profile holds the wall time of each bake stage.
type Profile struct {
	BuildTime   time.Duration
	FlattenTime time.Duration
	UploadTime  time.Duration
}

func (p *Profile) Reset() {
	p.BuildTime = 0
	p.FlattenTime = 0
	p.UploadTime = 0
}

func (p *Profile) Total() time.Duration {
	return p.BuildTime + p.FlattenTime + p.UploadTime
}

func (p *Profile) String() string {
	var sb strings.Builder
	for _, s := range []struct {
		name string
		d    time.Duration
	}{
		{"build", p.BuildTime},
		{"flatten", p.FlattenTime},
		{"upload", p.UploadTime},
	} {
		fmt.Fprintf(&sb, "%s: %.2fms, ", s.name, float64(s.d.Microseconds())/1000.0)
	}
	fmt.Fprintf(&sb, "total: %.2fms", float64(p.Total().Microseconds())/1000.0)
	return sb.String()
}
