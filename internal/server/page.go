package server

// indexPage hosts the five charts. Each placeholder is filled with the SVG of
// the chart of the same name from the viewer's session.
const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Presidential elections</title>
<style>
body { font-family: sans-serif; margin: 2em auto; max-width: 900px; }
.chart { margin-bottom: 1.5em; }
#brush-selection { float: right; width: 25%; }
#error { color: #b2182b; }
</style>
</head>
<body>
<div id="error"></div>
<div id="year-chart" class="chart"></div>
<div id="brush-selection" class="chart"></div>
<div id="electoral-vote" class="chart"></div>
<div id="votes-percentage" class="chart"></div>
<div id="tiles" class="chart"></div>
<script>
const charts = ["year-chart", "electoral-vote", "votes-percentage", "tiles", "brush-selection"];
let session = null;
let pending = 0;

async function api(method, path, body) {
  const res = await fetch(path, {
    method,
    headers: body ? {"Content-Type": "application/json"} : {},
    body: body ? JSON.stringify(body) : undefined,
  });
  if (!res.ok) {
    const err = await res.json().catch(() => ({message: res.statusText}));
    throw Object.assign(new Error(err.message), {status: res.status});
  }
  return res.status === 204 ? null : res;
}

async function draw(names) {
  for (const name of names) {
    const res = await api("GET", "/api/sessions/" + session + "/charts/" + name + ".svg");
    document.getElementById(name).innerHTML = await res.text();
  }
}

async function select(year) {
  const token = ++pending;
  try {
    await api("POST", "/api/sessions/" + session + "/year/" + year);
    if (token === pending) await draw(charts);
  } catch (e) {
    if (e.status !== 409) document.getElementById("error").textContent = e.message;
  }
}

async function brush(start, end) {
  await api("POST", "/api/sessions/" + session + "/brush", {start, end});
  await draw(["electoral-vote", "brush-selection"]);
}

document.getElementById("year-chart").addEventListener("click", (ev) => {
  const key = ev.target.closest("[data-key]");
  if (key && /^\d+$/.test(key.getAttribute("data-key"))) select(key.getAttribute("data-key"));
});

let dragStart = null;
const ev = document.getElementById("electoral-vote");
ev.addEventListener("mousedown", (e) => { dragStart = e.offsetX; });
ev.addEventListener("mouseup", (e) => {
  if (dragStart === null) return;
  const start = dragStart;
  dragStart = null;
  brush(Math.min(start, e.offsetX), Math.max(start, e.offsetX));
});

(async () => {
  const res = await api("POST", "/api/sessions");
  session = (await res.json()).id;
  await draw(["year-chart"]);
})();
</script>
</body>
</html>
`
