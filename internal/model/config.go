package model

type Config struct {
	DataDir string `yaml:"data_dir"`
	Storage struct {
		Key     string `yaml:"key"`
		Version string `yaml:"version"`
	} `yaml:"storage"`
	Log struct {
		Dir   string `yaml:"dir"`
		Level string `yaml:"level"`
	} `yaml:"log"`
	Backup struct {
		Enable     bool   `yaml:"enable"`
		Platform   string `yaml:"platform"`
		Bucket     string `yaml:"bucket"`
		AWSProfile string `yaml:"aws_profile"`
		AWSRegion  string `yaml:"aws_region"`
	} `yaml:"backup"`
}

func DefaultConfig() Config {
	config := Config{
		DataDir: "~/.config/todo/data",
	}
	config.Storage.Key = "todoApp"
	config.Storage.Version = "1.0.0"
	config.Log.Dir = "~/.config/todo/logs"
	config.Log.Level = "info"
	config.Backup.Platform = "s3"
	return config
}
