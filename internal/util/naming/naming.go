// Package naming provides consistent naming functions for dslab AWS resources.
//
// Infrastructure resources follow the pattern {project}-{environment}-{type}
// so that a whole workspace can be recognized at a glance in the AWS console
// and so that repeated runs of the same project/environment resolve to the
// same resource names.
package naming

import "fmt"

func SecurityGroup(project, environment string) string {
	return fmt.Sprintf("%s-%s-sg", project, environment)
}

func KeyPair(project, environment string) string {
	return fmt.Sprintf("%s-%s-key", project, environment)
}

func Instance(project, environment string, index int) string {
	return fmt.Sprintf("%s-%s-notebook-%d", project, environment, index)
}

// KeyMaterialFile is the local file the private key material is written to
// after key pair creation. The material is only retrievable once.
func KeyMaterialFile(keyName string) string {
	return keyName + ".pem"
}
