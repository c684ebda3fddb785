package config

import (
	"github.com/hashicorp/hcl/v2/hclsimple"

	"fuzzy-rank/internal/errors"
)

// hclFile mirrors Config for HCL decoding. Attributes are pointers so an
// explicit zero (top_n = 0, rate_limit = 0) is told apart from an absent one;
// absent attributes keep the defaults they are merged onto.
type hclFile struct {
	Version *string     `hcl:"version,optional"`
	Engine  *hclEngine  `hcl:"engine,block"`
	Input   *hclInput   `hcl:"input,block"`
	Output  *hclOutput  `hcl:"output,block"`
	Storage *hclStorage `hcl:"storage,block"`
	Server  *hclServer  `hcl:"server,block"`
	Logging *hclLogging `hcl:"logging,block"`
}

type hclEngine struct {
	Workers *int     `hcl:"workers,optional"`
	TopN    *int     `hcl:"top_n,optional"`
	Step    *float64 `hcl:"step,optional"`
}

type hclInput struct {
	Sheet         *string `hcl:"sheet,optional"`
	IDColumn      *string `hcl:"id_column,optional"`
	ServiceColumn *string `hcl:"service_column,optional"`
	PriceColumn   *string `hcl:"price_column,optional"`
}

type hclOutput struct {
	Format    *string `hcl:"format,optional"`
	Path      *string `hcl:"path,optional"`
	ShowTrace *bool   `hcl:"show_trace,optional"`
}

type hclStorage struct {
	Backend *string `hcl:"backend,optional"`
	Path    *string `hcl:"path,optional"`
	DSN     *string `hcl:"dsn,optional"`
}

type hclServer struct {
	Addr         *string  `hcl:"addr,optional"`
	RateLimit    *float64 `hcl:"rate_limit,optional"`
	Burst        *int     `hcl:"burst,optional"`
	CacheSize    *int     `hcl:"cache_size,optional"`
	MaxRecords   *int     `hcl:"max_records,optional"`
	AllowOrigins []string `hcl:"allow_origins,optional"`
}

type hclLogging struct {
	Level       *string `hcl:"level,optional"`
	Format      *string `hcl:"format,optional"`
	Output      *string `hcl:"output,optional"`
	Development *bool   `hcl:"development,optional"`
}

func loadHCL(path string, cfg *Config) error {
	var f hclFile
	if err := hclsimple.DecodeFile(path, nil, &f); err != nil {
		return errors.Config("failed to parse config "+path, err)
	}

	set(&cfg.Version, f.Version)
	if e := f.Engine; e != nil {
		set(&cfg.Engine.Workers, e.Workers)
		set(&cfg.Engine.TopN, e.TopN)
		set(&cfg.Engine.Step, e.Step)
	}
	if in := f.Input; in != nil {
		set(&cfg.Input.Sheet, in.Sheet)
		set(&cfg.Input.IDColumn, in.IDColumn)
		set(&cfg.Input.ServiceColumn, in.ServiceColumn)
		set(&cfg.Input.PriceColumn, in.PriceColumn)
	}
	if out := f.Output; out != nil {
		set(&cfg.Output.Format, out.Format)
		set(&cfg.Output.Path, out.Path)
		set(&cfg.Output.ShowTrace, out.ShowTrace)
	}
	if st := f.Storage; st != nil {
		set(&cfg.Storage.Backend, st.Backend)
		set(&cfg.Storage.Path, st.Path)
		set(&cfg.Storage.DSN, st.DSN)
	}
	if srv := f.Server; srv != nil {
		set(&cfg.Server.Addr, srv.Addr)
		set(&cfg.Server.RateLimit, srv.RateLimit)
		set(&cfg.Server.Burst, srv.Burst)
		set(&cfg.Server.CacheSize, srv.CacheSize)
		set(&cfg.Server.MaxRecords, srv.MaxRecords)
		if srv.AllowOrigins != nil {
			cfg.Server.AllowOrigins = srv.AllowOrigins
		}
	}
	if lg := f.Logging; lg != nil {
		set(&cfg.Logging.Level, lg.Level)
		set(&cfg.Logging.Format, lg.Format)
		set(&cfg.Logging.Output, lg.Output)
		set(&cfg.Logging.Development, lg.Development)
	}
	return nil
}

// set copies v into dst when the attribute was present
func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
