package main

import (
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/tasvirchi/tasvir/cmd"
	"github.com/tasvirchi/tasvir/config"
	"github.com/tasvirchi/tasvir/key"
	"github.com/tasvirchi/tasvir/log"
	"github.com/tasvirchi/tasvir/network"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	network.Client = network.NewClient(viper.GetDuration(key.NetworkTimeout))

	cmd.Execute()
}
