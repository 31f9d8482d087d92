package scenario_test

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/ltnsim/config"
	"github.com/sarchlab/ltnsim/message"
	"github.com/sarchlab/ltnsim/room"
	"github.com/sarchlab/ltnsim/scenario"
	"github.com/sarchlab/ltnsim/schedule"
)

const fieldWKT = `
(0 0)
(100 0)
(100 100)
(0 100)
`

func scenarioText(reportDir string) string {
	return `
Scenario.name = demo
Scenario.updateInterval = 1.0
Scenario.endTime = 20

MovementModel.rngSeed = 7
MovementModel.worldSize = 0,100

Group1.nrofHosts = 6
Group1.movementModel = RandomStationaryConstrained
Group1.router = EpidemicRouter
Group1.nrofInterfaces = 1
Group1.interface1 = bluetoothInterface
Group1.bufferCapacity = 5000000

bluetoothInterface.transmitRange = 60
bluetoothInterface.maximumParallelConnections = 8
bluetoothInterface.churnRate = 0
bluetoothInterface.communicationMode = 1

Events1.class = StaticHostMessageGenerator
Events1.size = 1000
Events1.count = 1
Events1.binSize = 0
Events1.hosts = 0,6
Events1.toHosts = 0,6

Report.report1 = UnifiedReport
Report.report2 = SummaryTable
Report.reportDir = ` + reportDir + `
`
}

func buildRoom() *room.Room {
	r, err := room.Parse(strings.NewReader(fieldWKT), nil)
	Expect(err).NotTo(HaveOccurred())
	Expect(r.WithRayOrigin(r.DefaultRayOrigin())).To(Succeed())
	return r
}

// clusteredScenarioText builds a 6-host, 2-cluster-of-3 scenario with
// communicationMode = INTRA and a transmit range spanning the whole
// room, so any cross-cluster connection or message pair observed can
// only be explained by a broken INTRA restriction, never by distance.
func clusteredScenarioText() string {
	return `
Scenario.name = cluster-demo
Scenario.updateInterval = 1.0
Scenario.endTime = 20

MovementModel.rngSeed = 7
MovementModel.worldSize = 0,100

Group1.nrofHosts = 6
Group1.movementModel = RandomStationaryCluster
Group1.router = EpidemicRouter
Group1.nrofInterfaces = 1
Group1.interface1 = bluetoothInterface
Group1.bufferCapacity = 5000000
Group1.nrofClusters = 2
Group1.clusterSide = 40
Group1.hostsPerCluster = 3

bluetoothInterface.transmitRange = 200
bluetoothInterface.maximumParallelConnections = 8
bluetoothInterface.churnRate = 0
bluetoothInterface.communicationMode = 0

Events1.class = StaticHostMessageGenerator
Events1.size = 1000
Events1.count = 1
Events1.binSize = 0
Events1.hosts = 0,6
Events1.toHosts = 0,6
`
}

var _ = Describe("Cluster filter (INTRA)", func() {
	It("restricts both the generator and connections to same-cluster pairs", func() {
		raw, err := config.Parse(strings.NewReader(clusteredScenarioText()))
		Expect(err).NotTo(HaveOccurred())
		cfg, err := config.BuildScenario(raw)
		Expect(err).NotTo(HaveOccurred())

		sc, err := scenario.Build(cfg, buildRoom())
		Expect(err).NotTo(HaveOccurred())

		connectionsUp, crossClusterConnections := 0, 0
		sc.Scheduler.Subscribe(schedule.HookPosConnectionUp, schedule.HookFunc(func(ctx sim.HookCtx) {
			p := ctx.Item.(schedule.Payload)
			ev := p.Item.(schedule.ConnectionEvent)
			connectionsUp++
			if !sc.World.SameCluster(ev.From, ev.To) {
				crossClusterConnections++
			}
		}))

		created, crossClusterMessages := 0, 0
		pairs := map[[2]message.HostAddress]bool{}
		sc.Scheduler.Subscribe(schedule.HookPosMessageCreate, schedule.HookFunc(func(ctx sim.HookCtx) {
			p := ctx.Item.(schedule.Payload)
			m := p.Item.(message.Message)
			created++
			pairs[[2]message.HostAddress{m.From, m.To}] = true
			if !sc.World.SameCluster(m.From, m.To) {
				crossClusterMessages++
			}
		}))

		sc.Run()

		Expect(connectionsUp).To(BeNumerically(">", 0))
		Expect(crossClusterConnections).To(Equal(0))

		// 2 clusters of 3 hosts -> 6 ordered pairs per cluster, 12 total,
		// one message each (Events1.count = 1).
		Expect(created).To(Equal(12))
		Expect(pairs).To(HaveLen(12))
		Expect(crossClusterMessages).To(Equal(0))
	})
})

var _ = Describe("Build and Run", func() {
	It("places every configured host and produces report output", func() {
		dir, err := os.MkdirTemp("", "ltnsim-scenario-test")
		Expect(err).NotTo(HaveOccurred())
		defer os.RemoveAll(dir)

		raw, err := config.Parse(strings.NewReader(scenarioText(dir)))
		Expect(err).NotTo(HaveOccurred())
		cfg, err := config.BuildScenario(raw)
		Expect(err).NotTo(HaveOccurred())

		sc, err := scenario.Build(cfg, buildRoom())
		Expect(err).NotTo(HaveOccurred())
		Expect(sc.World.Hosts()).To(HaveLen(6))

		sc.Run()

		summary, err := os.ReadFile(filepath.Join(dir, "demo.summary.txt"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(summary)).To(ContainSubstring("Run Summary"))

		unified, err := os.ReadFile(filepath.Join(dir, "demo.unified.txt"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(unified)).To(ContainSubstring("CREATE"))
	})
})
