package camunda

import (
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"rozgar-workers/internal/common/config"
)

// NewClient connects to the Zeebe gateway.
func NewClient(cfg config.CamundaConfig) (zbc.Client, error) {
	return zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         cfg.BrokerAddress,
		UsePlaintextConnection: true,
	})
}
