package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/binzume/fbxbin/fbx"
	"github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

func setConsoleLogger(level string) error {
	lv, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
	log.SetOutput(os.Stderr)
	log.SetLevel(lv)
	return nil
}

func run(fs afero.Fs, input string, conf *config, stdout io.Writer) error {
	input, err := homedir.Expand(input)
	if err != nil {
		return err
	}
	opts, err := conf.decoderOptions(log.WithField("file", input))
	if err != nil {
		return err
	}
	doc, err := fbx.LoadFS(fs, input, opts...)
	if err != nil {
		return err
	}

	if conf.Output == "" {
		return writeDocument(stdout, doc, conf.Format, conf.Full)
	}
	output, err := homedir.Expand(conf.Output)
	if err != nil {
		return err
	}
	f, err := fs.Create(output)
	if err != nil {
		return err
	}
	if err := writeDocument(f, doc, conf.Format, conf.Full); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.fbx\n", os.Args[0])
		flag.PrintDefaults()
	}
	def := defaultConfig()
	confFile := flag.String("config", "", "YAML config file")
	format := flag.String("format", def.Format, "output format: text, yaml or pretty")
	output := flag.String("o", "", "output file (default: stdout)")
	full := flag.Bool("full", false, "print long arrays")
	strict := flag.Bool("strict", false, "verify property list and array lengths")
	maxDepth := flag.Int("maxdepth", 0, "max node nesting, 0:unlimited")
	wide := flag.Bool("wide", def.Wide, "64bit node headers for FBX 7.5+ files")
	encoding := flag.String("encoding", "", "charset of names and strings (e.g. shift_jis)")
	maxInflate := flag.Int64("maxinflate", 0, "max inflated array size in bytes, 0:unlimited")
	logLevel := flag.String("loglevel", def.LogLevel, "log level")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	fs := afero.NewOsFs()
	conf := def
	if *confFile != "" {
		if err := loadConfig(fs, *confFile, conf); err != nil {
			log.Fatal(err)
		}
	}
	// explicit flags win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			conf.Format = *format
		case "o":
			conf.Output = *output
		case "full":
			conf.Full = *full
		case "strict":
			conf.Strict = *strict
		case "maxdepth":
			conf.MaxDepth = *maxDepth
		case "wide":
			conf.Wide = *wide
		case "encoding":
			conf.Encoding = *encoding
		case "maxinflate":
			conf.MaxInflate = *maxInflate
		case "loglevel":
			conf.LogLevel = *logLevel
		}
	})

	if err := setConsoleLogger(conf.LogLevel); err != nil {
		log.Fatal(err)
	}
	if err := run(fs, flag.Arg(0), conf, os.Stdout); err != nil {
		log.Fatal(err)
	}
}
