package main

import (
	"fmt"

	"github.com/binzume/fbxbin/fbx"
	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/text/encoding/htmlindex"
	"gopkg.in/yaml.v2"
)

type config struct {
	Format     string `yaml:"format"`
	Output     string `yaml:"output"`
	Full       bool   `yaml:"full"`
	Strict     bool   `yaml:"strict"`
	MaxDepth   int    `yaml:"maxdepth"`
	Wide       bool   `yaml:"wide"`
	Encoding   string `yaml:"encoding"`
	MaxInflate int64  `yaml:"maxinflate"`
	LogLevel   string `yaml:"loglevel"`
}

func defaultConfig() *config {
	return &config{Format: "text", LogLevel: "warning"}
}

func loadConfig(fs afero.Fs, path string, conf *config) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	r, err := fs.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()
	if err := yaml.NewDecoder(r).Decode(conf); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (c *config) decoderOptions(logger logrus.FieldLogger) ([]fbx.Option, error) {
	opts := []fbx.Option{
		fbx.WithLogger(logger),
		fbx.WithStrict(c.Strict),
		fbx.WithMaxDepth(c.MaxDepth),
		fbx.WithWideHeaders(c.Wide),
		fbx.WithDecompressor(fbx.ZlibDecompressor{MaxSize: c.MaxInflate}),
	}
	if c.Encoding != "" {
		enc, err := htmlindex.Get(c.Encoding)
		if err != nil {
			return nil, fmt.Errorf("unknown encoding %q", c.Encoding)
		}
		opts = append(opts, fbx.WithStringEncoding(enc))
	}
	return opts, nil
}
