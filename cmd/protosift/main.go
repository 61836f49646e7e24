// Command protosift pretty-prints protobuf wire-format payloads without
// their schemas. It reads a payload from a file or stdin and renders it as
// an indented field tree, or splits a stream into message tokens.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	protosift "github.com/protosift/protosift"
	"github.com/protosift/protosift/inspect"
)

func main() {
	var (
		schemaPath   = flag.String("schema", "", "proto file or directory of .proto files to load")
		typedefPaths = flag.StringArray("typedefs", nil, "TOML typedef file to load (repeatable)")
		rootType     = flag.String("root", "root", "type name to render the payload as")
		tokensMode   = flag.Bool("tokens", false, "split the input into message tokens instead of rendering one payload")
		chunkSize    = flag.Int("chunk-size", 32*1024, "read buffer size for token mode")
		noColor      = flag.Bool("no-color", false, "disable ANSI colors")
		verbose      = flag.BoolP("verbose", "v", false, "enable debug logging")
	)
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !*verbose {
		logger = logger.Level(zerolog.InfoLevel)
	}

	ins := protosift.New()
	if *noColor {
		ins.SetStyles(inspect.PlainStyles())
	}

	if *schemaPath != "" {
		if err := ins.LoadSchema(*schemaPath); err != nil {
			logger.Fatal().Err(err).Str("path", *schemaPath).Msg("failed to load schema")
		}
		logger.Debug().Str("path", *schemaPath).Msg("schema loaded")
	}
	for _, path := range *typedefPaths {
		if err := ins.LoadTypedefs(path); err != nil {
			logger.Fatal().Err(err).Str("path", path).Msg("failed to load typedefs")
		}
		logger.Debug().Str("path", path).Msg("typedefs loaded")
	}

	input := io.Reader(os.Stdin)
	if flag.NArg() > 0 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open input")
		}
		defer f.Close()
		input = f
	}

	if *tokensMode {
		if err := runTokens(ins, input, *chunkSize); err != nil {
			logger.Fatal().Err(err).Msg("token stream failed")
		}
	} else {
		if err := runInspect(ins, input, *rootType); err != nil {
			logger.Fatal().Err(err).Msg("inspect failed")
		}
	}

	if ins.WireTypeMismatch() {
		logger.Warn().Msg("fields were seen under conflicting wire types; the payload may not match the chosen root type")
	}
}

func runInspect(ins *protosift.Inspector, input io.Reader, rootType string) error {
	data, err := io.ReadAll(input)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	out, err := ins.Inspect(data, rootType)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runTokens(ins *protosift.Inspector, input io.Reader, chunkSize int) error {
	stream := protosift.NewStreamSize(input, chunkSize)
	for i := 0; ; i++ {
		token, err := stream.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		out, err := ins.Inspect(token, "message")
		if err != nil {
			// Opaque tokens are expected: show the bytes instead.
			out = fmt.Sprintf("opaque (%d bytes)", len(token))
		}
		fmt.Printf("token %d: %s\n", i, out)
	}
}
