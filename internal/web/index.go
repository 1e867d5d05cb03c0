package web

// Single pair dashboard fed by the SSE stream.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>obwatch</title>
  <link href="https://fonts.googleapis.com/css2?family=Space+Mono:wght@400;700&display=swap" rel="stylesheet">
  <style>
    :root { --bg:#ffffff; --ink:#111111; --ink-soft:#9c9c9c; --long:#1b7f3b; --short:#b3261e; }
    * { box-sizing:border-box; }
    body {
      margin:0; min-height:100vh; display:flex; align-items:center; justify-content:center;
      background:var(--bg); color:var(--ink); font-family:'Space Mono',monospace;
    }
    #app { border:3px solid var(--ink); padding:2rem; min-width:360px; box-shadow:8px 8px 0 rgba(0,0,0,.15); }
    h1 { font-size:1rem; letter-spacing:.2em; text-transform:uppercase; margin:0 0 1rem; }
    dl { display:grid; grid-template-columns:auto auto; gap:.5rem 1.5rem; margin:0; }
    dt { color:var(--ink-soft); text-transform:uppercase; font-size:.7rem; }
    dd { margin:0; font-weight:700; }
    .bar { height:10px; border:2px solid var(--ink); margin:1rem 0; display:flex; }
    .bar .bid { background:var(--long); }
    .bar .ask { background:var(--short); }
    .LONG { color:var(--long); }
    .SHORT { color:var(--short); }
    .status { font-size:.65rem; color:var(--ink-soft); margin-top:1rem; }
  </style>
</head>
<body>
<div id="app">
  <h1 id="pair">waiting for signal</h1>
  <div class="bar"><div class="bid" id="bid-bar" style="width:50%"></div><div class="ask" id="ask-bar" style="width:50%"></div></div>
  <dl>
    <dt>Current Price</dt><dd id="price">-</dd>
    <dt>Bid Volume %</dt><dd id="bid">-</dd>
    <dt>Ask Volume %</dt><dd id="ask">-</dd>
    <dt>Accumulating</dt><dd id="acc">-</dd>
    <dt>Trade Action</dt><dd id="action">-</dd>
  </dl>
  <div class="status" id="status">connecting</div>
</div>
<script>
  const $ = (id) => document.getElementById(id);
  const source = new EventSource('/signals/stream');
  source.onopen = () => { $('status').textContent = 'live'; };
  source.onerror = () => { $('status').textContent = 'reconnecting'; };
  source.addEventListener('signal', (e) => {
    const s = JSON.parse(e.data);
    $('pair').textContent = s.pair;
    $('price').textContent = s.current_price.toFixed(2);
    $('bid').textContent = s.bid_pct.toFixed(2) + '%';
    $('ask').textContent = s.ask_pct.toFixed(2) + '%';
    $('acc').textContent = s.is_accumulating ? 'yes' : 'no';
    $('action').textContent = s.action;
    $('action').className = s.action;
    $('bid-bar').style.width = s.bid_pct + '%';
    $('ask-bar').style.width = s.ask_pct + '%';
    $('status').textContent = 'updated ' + new Date(s.evaluated_at).toLocaleTimeString();
  });
</script>
</body>
</html>`
