package main

import (
	"os"
	"slices"
	"strings"

	"umrahcrm/config"
	"umrahcrm/helper"
	"umrahcrm/shared/logger"
	"umrahcrm/shared/timezone"

	"github.com/rs/zerolog/log"
)

func main() {
	logger.InitLogger()

	actions := make([]string, 0, len(helper.Actions))
	for action := range helper.Actions {
		actions = append(actions, action)
	}

	slices.Sort(actions)

	if len(os.Args) < 2 { //nolint:mnd
		log.Fatal().Msgf("Migration action is required: %s", strings.Join(actions, ", "))
	}

	cfg := config.Get()

	logger.SetLogLevel(cfg)

	timezone.Init(cfg.App.Timezone)

	if err := helper.Run(cfg, os.Args[1]); err != nil {
		log.Fatal().Err(err).Msgf("Valid actions: %s", strings.Join(actions, ", "))
	}
}
