package proxmox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftctl/craftctl/internal/config"
)

// fakeGuest is one guest hosted by the fake cluster.
type fakeGuest struct {
	VMID   int
	Node   string
	Type   GuestType
	Name   string
	Config map[string]any
}

// fakeTask is an asynchronous task simulated by the fake cluster.
// The task stays "running" for PollsUntilDone status reads, then stops
// with Exit as its exit status.
type fakeTask struct {
	PollsUntilDone int
	Exit           string
	polls          int
	done           bool
	onDone         func()
}

// fakeCluster simulates the subset of the Proxmox VE API the client uses.
// It counts probe and inventory calls so tests can assert on scan behavior.
type fakeCluster struct {
	mu sync.Mutex

	password string
	ticket   string

	nodes  []string
	guests []fakeGuest
	tasks  map[string]*fakeTask

	cloneRejection string // when set, clone submissions fail with this message
	cloneUPID      string

	authCalls      int
	probeCalls     int
	inventoryCalls int
	startCalls     []int
	stopCalls      []int
	deleteCalls    []int

	// expireTicket forces a 401 on the next authenticated request,
	// simulating server-side ticket expiry.
	expireTicket bool
}

func newFakeCluster() *fakeCluster {
	return &fakeCluster{
		password:  "secret",
		ticket:    "PVE:ticket::abcdef",
		nodes:     []string{"alpha"},
		tasks:     map[string]*fakeTask{},
		cloneUPID: "UPID:alpha:0000C0FE:qmclone:100:root@pam:",
	}
}

func (f *fakeCluster) addGuest(g fakeGuest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.guests = append(f.guests, g)
}

func (f *fakeCluster) findGuest(node string, gt GuestType, vmid int) *fakeGuest {
	for i := range f.guests {
		g := &f.guests[i]
		if g.Node == node && g.Type == gt && g.VMID == vmid {
			return g
		}
	}
	return nil
}

func writeData(w http.ResponseWriter, data any) {
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api2/json")

	if r.Method == http.MethodPost && path == "/access/ticket" {
		f.handleAuth(w, r)
		return
	}

	f.mu.Lock()
	expire := f.expireTicket
	if expire {
		f.expireTicket = false
	}
	f.mu.Unlock()
	if expire {
		http.Error(w, "ticket expired", http.StatusUnauthorized)
		return
	}

	cookie, err := r.Cookie("PVEAuthCookie")
	if err != nil || cookie.Value != f.ticket {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	switch {
	case path == "/nodes":
		f.mu.Lock()
		nodes := make([]map[string]string, 0, len(f.nodes))
		for _, n := range f.nodes {
			nodes = append(nodes, map[string]string{"node": n})
		}
		f.mu.Unlock()
		writeData(w, nodes)

	case path == "/cluster/resources":
		f.mu.Lock()
		f.inventoryCalls++
		entries := make([]InventoryEntry, 0, len(f.guests))
		for _, g := range f.guests {
			entries = append(entries, InventoryEntry{VMID: g.VMID, Name: g.Name, Node: g.Node, Type: g.Type})
		}
		f.mu.Unlock()
		writeData(w, entries)

	default:
		f.handleNodeScoped(w, r, path)
	}
}

func (f *fakeCluster) handleAuth(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.authCalls++
	f.mu.Unlock()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if r.PostFormValue("password") != f.password {
		http.Error(w, "authentication failure", http.StatusUnauthorized)
		return
	}
	writeData(w, map[string]string{
		"ticket":              f.ticket,
		"CSRFPreventionToken": "csrf-token",
		"username":            r.PostFormValue("username"),
	})
}

// handleNodeScoped dispatches /nodes/{node}/... endpoints.
func (f *fakeCluster) handleNodeScoped(w http.ResponseWriter, r *http.Request, path string) {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(parts) < 3 || parts[0] != "nodes" {
		http.NotFound(w, r)
		return
	}
	node := parts[1]

	if parts[2] == "tasks" && len(parts) == 5 && parts[4] == "status" {
		f.handleTaskStatus(w, parts[3])
		return
	}

	gt := GuestType(parts[2])
	if gt != GuestQEMU && gt != GuestLXC {
		http.NotFound(w, r)
		return
	}
	vmid, err := strconv.Atoi(parts[3])
	if err != nil {
		http.NotFound(w, r)
		return
	}
	suffix := strings.Join(parts[4:], "/")

	f.mu.Lock()
	defer f.mu.Unlock()
	guest := f.findGuest(node, gt, vmid)

	switch {
	case suffix == "status/current":
		f.probeCalls++
		if guest == nil {
			http.Error(w, fmt.Sprintf("Configuration file 'nodes/%s/%s/%d.conf' does not exist", node, gt, vmid), http.StatusInternalServerError)
			return
		}
		writeData(w, map[string]string{"status": "stopped"})

	case suffix == "config":
		if guest == nil {
			http.Error(w, "no such guest", http.StatusInternalServerError)
			return
		}
		writeData(w, guest.Config)

	case suffix == "clone" && r.Method == http.MethodPost:
		if guest == nil {
			http.Error(w, "no such guest", http.StatusInternalServerError)
			return
		}
		if f.cloneRejection != "" {
			http.Error(w, f.cloneRejection, http.StatusInternalServerError)
			return
		}
		writeData(w, f.cloneUPID)

	case suffix == "status/start" && r.Method == http.MethodPost:
		f.startCalls = append(f.startCalls, vmid)
		writeData(w, "UPID:start")

	case suffix == "status/stop" && r.Method == http.MethodPost:
		f.stopCalls = append(f.stopCalls, vmid)
		writeData(w, "UPID:stop")

	case suffix == "" && r.Method == http.MethodDelete:
		f.deleteCalls = append(f.deleteCalls, vmid)
		writeData(w, "UPID:delete")

	default:
		http.NotFound(w, r)
	}
}

func (f *fakeCluster) handleTaskStatus(w http.ResponseWriter, upid string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[upid]
	if !ok {
		http.Error(w, "no such task", http.StatusInternalServerError)
		return
	}
	task.polls++
	if task.polls > task.PollsUntilDone {
		if !task.done {
			task.done = true
			if task.onDone != nil {
				task.onDone()
			}
		}
		writeData(w, map[string]string{"status": TaskStatusStopped, "exitstatus": task.Exit})
		return
	}
	writeData(w, map[string]string{"status": TaskStatusRunning})
}

// newTestClient spins up the fake cluster and a RealClient pointed at it.
func newTestClient(t *testing.T, f *fakeCluster) (*RealClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewTLSServer(f)
	t.Cleanup(srv.Close)

	host := strings.TrimPrefix(srv.URL, "https://")
	client := NewRealClient(host, "root@pam", f.password,
		WithHTTPClient(srv.Client()),
		WithTimeouts(config.TestTimeouts()))
	return client, srv
}

func TestAuthenticate_CachesTicket(t *testing.T) {
	t.Parallel()

	f := newFakeCluster()
	f.addGuest(fakeGuest{VMID: 100, Node: "alpha", Type: GuestQEMU, Name: "template"})
	client, _ := newTestClient(t, f)

	_, err := client.Locate(context.Background(), 100)
	require.NoError(t, err)
	_, err = client.Locate(context.Background(), 100)
	require.NoError(t, err)

	assert.Equal(t, 1, f.authCalls, "ticket should be obtained once and reused")
}

func TestAuthenticate_WrongCredentials(t *testing.T) {
	t.Parallel()

	f := newFakeCluster()
	srv := httptest.NewTLSServer(f)
	t.Cleanup(srv.Close)
	host := strings.TrimPrefix(srv.URL, "https://")

	bad := NewRealClient(host, "root@pam", "wrong",
		WithHTTPClient(srv.Client()), WithTimeouts(config.TestTimeouts()))

	_, err := bad.Authenticate(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthFailure(err))
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.Status)
	assert.Contains(t, authErr.Message, "authentication failure")

	// nothing was cached: the next call attempts authentication again
	_, err = bad.Authenticate(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, f.authCalls)

	// an independent client with correct credentials is unaffected
	good := NewRealClient(host, "root@pam", f.password,
		WithHTTPClient(srv.Client()), WithTimeouts(config.TestTimeouts()))
	ticket, err := good.Authenticate(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, ticket.Value)
}

func TestExpiredTicket_TriggersReauthentication(t *testing.T) {
	t.Parallel()

	f := newFakeCluster()
	f.addGuest(fakeGuest{VMID: 100, Node: "alpha", Type: GuestQEMU, Name: "template"})
	client, _ := newTestClient(t, f)

	_, err := client.Locate(context.Background(), 100)
	require.NoError(t, err)
	require.Equal(t, 1, f.authCalls)

	f.mu.Lock()
	f.expireTicket = true
	f.mu.Unlock()

	// the expired request fails and invalidates the slot
	_, err = client.Locate(context.Background(), 100)
	require.Error(t, err)
	assert.True(t, IsAuthFailure(err))

	// the next operation re-authenticates and succeeds
	_, err = client.Locate(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, 2, f.authCalls)
}

func TestLocate_ReturnsOwningNodeAndBackend(t *testing.T) {
	t.Parallel()

	f := newFakeCluster()
	f.nodes = []string{"alpha", "beta", "gamma"}
	f.addGuest(fakeGuest{VMID: 200, Node: "beta", Type: GuestLXC, Name: "mc-proxy"})
	client, _ := newTestClient(t, f)

	inst, err := client.Locate(context.Background(), 200)
	require.NoError(t, err)
	assert.Equal(t, &Instance{VMID: 200, Node: "beta", Type: GuestLXC}, inst)
}

func TestLocate_NotFound_ProbesEveryCombination(t *testing.T) {
	t.Parallel()

	f := newFakeCluster()
	f.nodes = []string{"alpha", "beta", "gamma"}
	client, _ := newTestClient(t, f)

	_, err := client.Locate(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "999")
	assert.Equal(t, 6, f.probeCalls, "3 nodes x 2 backends")
}

func TestNetworkConfig_ExtractsInterfaces(t *testing.T) {
	t.Parallel()

	f := newFakeCluster()
	f.addGuest(fakeGuest{
		VMID: 103, Node: "alpha", Type: GuestQEMU, Name: "mc-3",
		Config: map[string]any{
			"net0":  "virtio=bc:24:11:aa:1d:29,bridge=vmbr0,firewall=1",
			"net2":  "virtio=BC:24:11:80:18:3D,bridge=vmbr1",
			"cores": float64(4),
		},
	})
	client, _ := newTestClient(t, f)

	identity, err := client.NetworkConfig(context.Background(), 103)
	require.NoError(t, err)
	require.Len(t, identity.Interfaces, 2)
	assert.Equal(t, "BC:24:11:AA:1D:29", identity.PrimaryMAC)
	assert.Equal(t, 0, identity.Interfaces[0].Slot)
	assert.Equal(t, 2, identity.Interfaces[1].Slot)
	assert.Equal(t, "BC:24:11:80:18:3D", identity.Interfaces[1].MAC)
}

func TestNetworkConfig_NoInterfaces(t *testing.T) {
	t.Parallel()

	f := newFakeCluster()
	f.addGuest(fakeGuest{
		VMID: 104, Node: "alpha", Type: GuestQEMU, Name: "no-nics",
		Config: map[string]any{"cores": float64(2)},
	})
	client, _ := newTestClient(t, f)

	identity, err := client.NetworkConfig(context.Background(), 104)
	require.NoError(t, err)
	assert.Empty(t, identity.Interfaces)
	assert.Empty(t, identity.PrimaryMAC)
}

func TestClone_ExplicitTarget_SkipsInventoryScan(t *testing.T) {
	t.Parallel()

	f := newFakeCluster()
	f.addGuest(fakeGuest{VMID: 100, Node: "alpha", Type: GuestQEMU, Name: "template"})
	client, _ := newTestClient(t, f)

	result, err := client.Clone(context.Background(), CloneOpts{SourceID: 100, Name: "mc-1", TargetID: 105})
	require.NoError(t, err)
	assert.Equal(t, 105, result.VMID)
	assert.True(t, result.Resolved)
	assert.Equal(t, f.cloneUPID, result.TaskID)
	assert.Equal(t, 0, f.inventoryCalls, "explicit target must not trigger an inventory scan")
}

func TestClone_AutoAssign_ResolvesByName(t *testing.T) {
	t.Parallel()

	f := newFakeCluster()
	f.addGuest(fakeGuest{VMID: 100, Node: "alpha", Type: GuestQEMU, Name: "template"})
	f.tasks[f.cloneUPID] = &fakeTask{
		PollsUntilDone: 3,
		Exit:           TaskExitOK,
		onDone: func() {
			// new guest appears in the inventory only once the task finishes
			f.guests = append(f.guests, fakeGuest{VMID: 103, Node: "alpha", Type: GuestQEMU, Name: "mc-3"})
		},
	}
	client, _ := newTestClient(t, f)

	result, err := client.Clone(context.Background(), CloneOpts{SourceID: 100, Name: "mc-3"})
	require.NoError(t, err)
	assert.True(t, result.Resolved)
	assert.Equal(t, 103, result.VMID)
	assert.Equal(t, 1, f.inventoryCalls, "auto-assign must scan the inventory exactly once")
	assert.GreaterOrEqual(t, f.tasks[f.cloneUPID].polls, 4, "task was polled to completion first")
}

func TestClone_AutoAssign_UnresolvedIdentity(t *testing.T) {
	t.Parallel()

	f := newFakeCluster()
	f.addGuest(fakeGuest{VMID: 100, Node: "alpha", Type: GuestQEMU, Name: "template"})
	// task succeeds but no guest ever shows up under the requested name
	f.tasks[f.cloneUPID] = &fakeTask{PollsUntilDone: 1, Exit: TaskExitOK}
	client, _ := newTestClient(t, f)

	result, err := client.Clone(context.Background(), CloneOpts{SourceID: 100, Name: "mc-3"})
	require.NoError(t, err, "an unmatched name is a warning, not a failure")
	assert.False(t, result.Resolved)
	assert.Zero(t, result.VMID)
	assert.Equal(t, f.cloneUPID, result.TaskID)
	assert.Equal(t, 1, f.inventoryCalls)
}

func TestClone_AutoAssign_DuplicateNameStaysUnresolved(t *testing.T) {
	t.Parallel()

	f := newFakeCluster()
	f.addGuest(fakeGuest{VMID: 100, Node: "alpha", Type: GuestQEMU, Name: "template"})
	// a pre-existing guest already carries the requested name
	f.addGuest(fakeGuest{VMID: 101, Node: "alpha", Type: GuestQEMU, Name: "mc-3"})
	f.tasks[f.cloneUPID] = &fakeTask{
		PollsUntilDone: 1,
		Exit:           TaskExitOK,
		onDone: func() {
			f.guests = append(f.guests, fakeGuest{VMID: 103, Node: "alpha", Type: GuestQEMU, Name: "mc-3"})
		},
	}
	client, _ := newTestClient(t, f)

	result, err := client.Clone(context.Background(), CloneOpts{SourceID: 100, Name: "mc-3"})
	require.NoError(t, err, "an ambiguous name is a warning, not a failure")
	assert.False(t, result.Resolved, "two guests named mc-3: neither may be picked")
	assert.Zero(t, result.VMID)
	assert.Equal(t, 1, f.inventoryCalls)
}

func TestClone_SubmissionRejected(t *testing.T) {
	t.Parallel()

	f := newFakeCluster()
	f.addGuest(fakeGuest{VMID: 100, Node: "alpha", Type: GuestQEMU, Name: "template"})
	f.cloneRejection = "clone failed: source is locked (snapshot-delete)"
	client, _ := newTestClient(t, f)

	_, err := client.Clone(context.Background(), CloneOpts{SourceID: 100, Name: "mc-9"})
	require.Error(t, err)
	var cloneErr *CloneError
	require.ErrorAs(t, err, &cloneErr)
	assert.Equal(t, 100, cloneErr.SourceID)
	assert.Contains(t, cloneErr.Message, "source is locked")
}

func TestClone_UnknownSource(t *testing.T) {
	t.Parallel()

	f := newFakeCluster()
	client, _ := newTestClient(t, f)

	_, err := client.Clone(context.Background(), CloneOpts{SourceID: 777, Name: "mc-1"})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestLifecycle_StartStopDelete(t *testing.T) {
	t.Parallel()

	f := newFakeCluster()
	f.addGuest(fakeGuest{VMID: 103, Node: "alpha", Type: GuestQEMU, Name: "mc-3"})
	client, _ := newTestClient(t, f)

	require.NoError(t, client.StartInstance(context.Background(), 103))
	require.NoError(t, client.StopInstance(context.Background(), 103))
	require.NoError(t, client.DeleteInstance(context.Background(), 103))

	assert.Equal(t, []int{103}, f.startCalls)
	assert.Equal(t, []int{103}, f.stopCalls)
	assert.Equal(t, []int{103}, f.deleteCalls)
}

func TestLifecycle_UnknownInstance(t *testing.T) {
	t.Parallel()

	f := newFakeCluster()
	client, _ := newTestClient(t, f)

	assert.True(t, IsNotFound(client.StartInstance(context.Background(), 404)))
	assert.True(t, IsNotFound(client.StopInstance(context.Background(), 404)))
	assert.True(t, IsNotFound(client.DeleteInstance(context.Background(), 404)))
}
