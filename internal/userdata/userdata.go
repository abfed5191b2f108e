// Package userdata renders the boot-time initialization script delivered to
// compute instances. The orchestrator treats the rendered script as an opaque
// blob; only this package knows its contents.
package userdata

import (
	"fmt"
	"strings"
	"text/template"
)

// NotebookPort is the fixed port the notebook service listens on. The
// matching ingress rule is opened by the network provisioner.
const NotebookPort = 8888

const scriptTemplate = `#!/bin/bash
set -euo pipefail

yum update -y
yum install -y python3 python3-pip awscli

pip3 install --upgrade pip
pip3 install jupyterlab boto3 pandas numpy matplotlib scikit-learn

mkdir -p /home/ec2-user/workspace
cat > /home/ec2-user/workspace/.env <<ENV
DSLAB_BUCKET={{.Bucket}}
DSLAB_REGION={{.Region}}
ENV
chown -R ec2-user:ec2-user /home/ec2-user/workspace

sudo -u ec2-user nohup jupyter lab \
  --ip=0.0.0.0 \
  --port={{.Port}} \
  --no-browser \
  --notebook-dir=/home/ec2-user/workspace \
  --ServerApp.token='{{.Token}}' \
  > /var/log/jupyter.log 2>&1 &
`

var tmpl = template.Must(template.New("notebook").Parse(scriptTemplate))

// Params configures the rendered boot script.
type Params struct {
	Bucket string
	Region string
	Token  string
	Port   int
}

// NotebookScript renders the instance initialization script. The notebook
// binds to all interfaces with the configured access token; both are
// compatibility defaults the caller is expected to warn about.
func NotebookScript(p Params) (string, error) {
	if p.Port == 0 {
		p.Port = NotebookPort
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, p); err != nil {
		return "", fmt.Errorf("failed to render user data script: %w", err)
	}
	return b.String(), nil
}
