package health

import (
	"fmt"
	"html/template"
	"strings"
)

type dashboardView struct {
	Health       CollectResult
	StoreBackend string
	AvgLatency   string
	Load         string
	Method       string
	Path         string
	IP           string
}

// RenderDashboardHTML returns the status page served at GET /, seeded with one health snapshot.
// The page polls /health/json afterwards; every value reaches the DOM as text, never as markup.
func RenderDashboardHTML(health CollectResult) string {
	v := dashboardView{
		Health:       health,
		StoreBackend: health.Dependencies["storage"].Backend,
		AvgLatency:   fmt.Sprint(health.Traffic.AvgResponseTime),
		Load:         "0.00",
		Method:       "-",
		Path:         "-",
		IP:           "-",
	}
	if v.StoreBackend == "" {
		v.StoreBackend = "none"
	}
	if len(health.Runtime.CPU.LoadAvg) > 0 {
		v.Load = health.Runtime.CPU.LoadAvg[0]
	}
	if m, ok := health.Traffic.LastRequest.(map[string]interface{}); ok {
		for key, dst := range map[string]*string{"method": &v.Method, "path": &v.Path, "ip": &v.IP} {
			if s, ok := m[key].(string); ok && s != "" {
				*dst = s
			}
		}
	}

	var b strings.Builder
	if err := dashboardTmpl.Execute(&b, v); err != nil {
		return "dashboard unavailable: " + template.HTMLEscapeString(err.Error())
	}
	return b.String()
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Flipforma · API Status</title>
  <style>
    :root { --bg: #100F0F; --panel: #1C1B1A; --line: #282726; --text: #FFFCF0; --muted: #6F6E69; --ok: #879A39; --bad: #D14D41; --accent: #3AA99F; }
    body { background: var(--bg); color: var(--text); font: 14px/1.4 ui-monospace, Menlo, monospace; margin: 0; padding: 40px 20px; }
    main { max-width: 960px; margin: 0 auto; }
    h1 { font-size: 28px; margin: 0 0 4px; }
    h1.issue { color: var(--bad); }
    .sub { color: var(--muted); margin-bottom: 24px; }
    .grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(260px, 1fr)); gap: 16px; }
    section { background: var(--panel); border: 1px solid var(--line); border-radius: 10px; padding: 18px; }
    h2 { color: var(--accent); font-size: 12px; text-transform: uppercase; letter-spacing: 1px; margin: 0 0 12px; }
    .big { font-size: 30px; margin-bottom: 8px; }
    .row { display: flex; justify-content: space-between; padding: 4px 0; border-bottom: 1px solid var(--line); }
    .row:last-child { border-bottom: none; }
    .ok { color: var(--ok); } .err { color: var(--bad); }
    footer { margin-top: 16px; display: flex; gap: 16px; color: var(--muted); }
    button { background: none; color: var(--text); border: 1px solid var(--line); border-radius: 6px; padding: 6px 12px; cursor: pointer; font: inherit; }
    #errors { display: none; margin-top: 16px; }
    #errors pre { white-space: pre-wrap; color: var(--muted); }
  </style>
</head>
<body>
<main>
  <h1 id="headline">All Systems Operational</h1>
  <div class="sub">Pro forma API and project storage · <span id="clock"></span></div>
  <div class="grid">
    <section>
      <h2>Traffic</h2>
      <div class="big" id="total-req">{{.Health.Traffic.TotalRequests}}</div>
      <div class="row"><span>Successful</span><span id="success-count" class="ok">{{.Health.Traffic.SuccessCount}}</span></div>
      <div class="row"><span>Failed</span><span id="failed-count" class="err">{{.Health.Traffic.FailedCount}}</span></div>
      <div class="row"><span>Success Rate</span><span id="success-rate">{{.Health.Traffic.SuccessRate}}%</span></div>
      <div class="row"><span>Avg Latency</span><span id="avg-time">{{.AvgLatency}}ms</span></div>
    </section>
    <section>
      <h2>Runtime</h2>
      <div class="big" id="uptime">{{.Health.Runtime.UptimeSeconds}}s</div>
      <div class="row"><span>Heap Used</span><span id="mem-heap">{{.Health.Runtime.Memory.HeapUsed}} MB</span></div>
      <div class="row"><span>Memory (RSS)</span><span>{{.Health.Runtime.Memory.RSS}} MB</span></div>
      <div class="row"><span>Load Avg</span><span id="load">{{.Load}}</span></div>
      <div class="row"><span>Goroutines</span><span>{{.Health.Runtime.Goroutines}}</span></div>
      <div class="row"><span>Platform</span><span>{{.Health.Runtime.Platform}}</span></div>
    </section>
    <section>
      <h2>Dependencies</h2>
      <div class="row"><span>Project Store ({{.StoreBackend}})</span><span id="dep-store">--</span></div>
      <div class="row"><span>Redis</span><span id="dep-redis">--</span></div>
      <h2 style="margin-top:18px">Last Request</h2>
      <div class="row"><span id="req-method">{{.Method}}</span><span id="req-path">{{.Path}}</span></div>
      <div class="row"><span>From</span><span id="req-ip">{{.IP}}</span></div>
    </section>
  </div>
  <footer>
    <button onclick="toggleErrors()">Error Log</button>
    <button onclick="refresh()">Refresh</button>
  </footer>
  <section id="errors"></section>
</main>
<script>
  const snapshot = {{.Health}};
  const text = (id, v) => { document.getElementById(id).textContent = v; };
  const uptime = (s) => Math.floor(s / 3600) + 'h ' + Math.floor((s % 3600) / 60) + 'm ' + (s % 60) + 's';
  const dep = (id, d) => {
    const el = document.getElementById(id);
    const ok = d && (d.status === 'connected' || d.status === 'disabled');
    el.className = ok ? 'ok' : 'err';
    el.textContent = !d ? '?' : d.status === 'disabled' ? 'off' : d.status + (d.pingMs != null ? ' · ' + d.pingMs + ' ms' : '');
  };
  function render(d) {
    text('clock', new Date().toLocaleTimeString());
    text('total-req', d.traffic.totalRequests);
    text('success-count', d.traffic.successCount);
    text('failed-count', d.traffic.failedCount);
    text('success-rate', d.traffic.successRate + '%');
    text('avg-time', d.traffic.avgResponseTime + 'ms');
    text('uptime', uptime(d.runtime.uptimeSeconds));
    text('mem-heap', d.runtime.memory.heapUsed + ' MB');
    text('load', d.runtime.cpu.loadAvg[0]);
    if (d.traffic.lastRequest) {
      text('req-method', d.traffic.lastRequest.method);
      text('req-path', d.traffic.lastRequest.path);
      text('req-ip', d.traffic.lastRequest.ip);
    }
    dep('dep-store', d.dependencies.storage);
    dep('dep-redis', d.dependencies.redis);
    const hl = document.getElementById('headline');
    hl.textContent = d.status === 'ok' ? 'All Systems Operational' : 'System Issues Detected';
    hl.className = d.status === 'ok' ? '' : 'issue';
  }
  async function refresh() {
    try { render(await (await fetch('/health/json')).json()); } catch (e) {}
  }
  async function toggleErrors() {
    const box = document.getElementById('errors');
    if (box.style.display === 'block') { box.style.display = 'none'; return; }
    box.style.display = 'block';
    box.textContent = 'Loading...';
    try {
      const errors = await (await fetch('/health/errors')).json();
      box.textContent = errors.length ? '' : 'No internal errors recorded.';
      for (const e of errors) {
        const h = document.createElement('h2');
        h.textContent = new Date(e.time).toLocaleString() + '  ' + (e.method || '') + ' ' + (e.path || '');
        const msg = document.createElement('div');
        msg.className = 'err';
        msg.textContent = e.message || '';
        box.append(h, msg);
        if (e.stack) { const pre = document.createElement('pre'); pre.textContent = e.stack; box.append(pre); }
      }
    } catch (e) { box.textContent = 'Error loading logs.'; }
  }
  render(snapshot);
  setInterval(refresh, 10000);
</script>
</body>
</html>`))
