package sandpile

import (
	"strconv"

	"sandpile/internal/core"
)

// Parameters reports the configuration the sandpile runs with.
func (p *Sandpile) Parameters() core.ParameterSnapshot {
	return p.cfg.Parameters()
}

// Parameters reports the configuration as a presentable snapshot.
func (c Config) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Table",
			Params: []core.Parameter{
				intParam("w", "Width", c.Width, "columns"),
				intParam("h", "Height", c.Height, "rows"),
				intParam("capacity", "Capacity", c.Capacity, "largest stable grain count"),
				int64Param("seed", "Seed", c.Seed, "cell picker seed"),
			},
		},
		{
			Name: "Cascade",
			Params: []core.Parameter{
				{
					Key:         "queue",
					Label:       "Queue discipline",
					Type:        core.ParamTypeString,
					Value:       string(c.Queue),
					Description: "order pending topples are resolved in",
				},
				intParam("cascade_limit", "Cascade limit", c.cascadeLimit(), "topples per avalanche before aborting"),
			},
		},
	}}
}

func intParam(key, label string, value int, desc string) core.Parameter {
	return core.Parameter{
		Key:         key,
		Label:       label,
		Type:        core.ParamTypeInt,
		Value:       strconv.Itoa(value),
		Description: desc,
	}
}

func int64Param(key, label string, value int64, desc string) core.Parameter {
	return core.Parameter{
		Key:         key,
		Label:       label,
		Type:        core.ParamTypeInt,
		Value:       strconv.FormatInt(value, 10),
		Description: desc,
	}
}
