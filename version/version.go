package version

var (
	Version = "0.1.0-dev"

	// git hash should be filled by:
	// 	go build -ldflags="-X github.com/owlmorph/owlmorph/version.GitHash=xxxx"

	GitHash   = "dev snapshot"
	BuildDate string
)
