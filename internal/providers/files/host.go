package files

import (
	"fmt"
	"os"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
)

// LoadHostConfig reads the sysctl and sshd configuration files.
func LoadHostConfig(sysctlPath, sshdPath string) (*models.HostConfig, error) {
	sysctl, err := readConfigFile(sysctlPath)
	if err != nil {
		return nil, err
	}
	sshd, err := readConfigFile(sshdPath)
	if err != nil {
		return nil, err
	}
	return &models.HostConfig{Sysctl: sysctl, SSHD: sshd}, nil
}

func readConfigFile(path string) (models.ConfigFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.ConfigFile{}, fmt.Errorf("read %s: %w", path, err)
	}
	return models.ConfigFile{Path: path, Content: string(data)}, nil
}
