// Package config loads typed configuration structs from the environment with
// github.com/caarlos0/env, after reading a dotenv file with
// github.com/joho/godotenv.
//
// Every package that needs settings declares its own struct (pg.Config,
// redis.Config, httpserver.Config and so on) and the binary loads each of
// them once at startup:
//
//	var pgCfg pg.Config
//	config.MustLoad(&pgCfg)
//
// Results are cached per type, so repeated loads are cheap and always agree.
package config
