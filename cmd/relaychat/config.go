package main

// Config is populated from the environment; a local .env file is loaded
// first when present.
type Config struct {
	Host       string `env:"HOST,default=localhost"`
	Port       int    `env:"PORT,default=55555"`
	SendBuffer int    `env:"SEND_BUFFER,default=16"`
}
