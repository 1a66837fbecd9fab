// Package config loads seqkit settings and installs them.
//
// It uses Viper to load a YAML file, joho/godotenv to load a .env file, and
// lets SEQKIT_-prefixed environment variables override both with
// underscore-separated paths (e.g., SEQKIT_PIPELINE_REUSE_MODE). Loaded
// settings are validated with struct tags before use.
//
// # Usage
//
//	settings, err := config.Load("seqkit", config.WithConfigFile("seqkit.yml"))
//	if err != nil {
//	    return err
//	}
//	shutdown, err := settings.Apply(ctx)
//	if err != nil {
//	    return err
//	}
//	defer shutdown(ctx)
package config
