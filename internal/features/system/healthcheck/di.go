package system_healthcheck

import (
	"zidotask/internal/config"
)

var healthcheckService = &HealthcheckService{
	diskPath: config.GetEnv().BackendRootPath,
}
var healthcheckController = &HealthcheckController{
	healthcheckService,
}

func GetHealthcheckController() *HealthcheckController {
	return healthcheckController
}
