package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"e6dl/api"
	"github.com/alexflint/go-arg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const version = "1.1.0"

func main() {
	var args AppArguments
	p := arg.MustParse(&args)

	if args.PrintVersion {
		fmt.Println("e6dl " + version)
		os.Exit(0)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	log.Logger = log.Level(logLevel())

	if err := args.Validate(); err != nil {
		p.Fail(err.Error())
	}

	log.Debug().Any("app_arguments", args).Send()
	log.Info().Str("tags", strings.Join(args.Tags, " ")).Msg("searching for posts")

	client := api.DefaultClient()
	if args.SFW {
		client = api.DefaultSFWClient()
	}

	saver := NewSaver(&args, client)
	if err := saver.Run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("error running the app")
	}
}

// logLevel reads the E6DL_LOG environment variable, defaulting to info.
func logLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(os.Getenv("E6DL_LOG"))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
