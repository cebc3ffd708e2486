package viewer

// documentTemplate is the self-contained two-pane viewer document.
const documentTemplate = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{.Title}}</title>
<style>{{.CSS}}</style>
</head>
<body>
<div class="wrap" id="splitWrap">
  <div class="viewer" id="viewer">
    <div class="toolbar">
      <button class="btn" id="prevBtn">&#9664; Prev</button>
      <button class="btn" id="nextBtn">Next &#9654;</button>
      <span class="small">Page</span>
      <input type="number" id="pageInput" min="1" value="1">
      <span id="pageCount" class="small">/ ?</span>
      <span class="spacer"></span>
      <button class="btn" id="zoomOut">&minus;</button>
      <span class="small">Zoom</span>
      <button class="btn" id="zoomIn">+</button>
      <button class="btn" id="fitWidth">Fit Width</button>
      <span class="note">File: <span class="kbd">{{.PDFName}}</span></span>
    </div>
    <canvas id="pdfCanvas"></canvas>
    <div id="pdfError" class="note error"></div>
  </div>

  <div class="gutter" id="gutter" role="separator" aria-orientation="vertical" aria-label="Resize panels">
    <div class="bar"></div>
  </div>

  <div class="right">
    <h1>{{.Title}}{{if .Subtitle}} <span class="small">&mdash; {{.Subtitle}}</span>{{end}}</h1>
    {{if .Hint}}<p class="small">{{.Hint}}</p>{{end}}
    {{range .Sections}}
    <div class="panel"{{if .ID}} id="{{.ID}}"{{end}}>
      <h2>{{if .ID}}{{.ID}}. {{end}}{{.Title}}{{range .Tags}} <span class="pill">{{.}}</span>{{end}}</h2>
      {{if .ReadAloud}}<div class="readaloud"><p>{{.ReadAloud}}</p></div>{{end}}
      {{.Body}}
    </div>
    {{else}}
    <p class="small">This adventure has no sections yet.</p>
    {{end}}
  </div>
</div>
<script>
const PDF_B64 = {{.PDFData}};
const CFG = {{.Runtime}};
{{.Script}}
</script>
{{if .ReloadID}}<script>
(function(){
  const id = {{.ReloadID}};
  const proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
  function connect(){
    const ws = new WebSocket(proto + '//' + location.host + '/ws/reload');
    ws.onmessage = e => {
      try { const ev = JSON.parse(e.data); if (ev.id === id || ev.id === '*') location.reload(); } catch (_) {}
    };
    ws.onclose = () => setTimeout(connect, 2000);
  }
  connect();
})();
</script>{{end}}
</body>
</html>
`

// indexTemplate lists the stored adventures.
const indexTemplate = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>Adventures</title>
<style>{{.CSS}}</style>
</head>
<body class="index">
  <h1>Adventures <span class="small">&mdash; {{.PDFName}}</span></h1>
  {{if .Message}}<p class="note error">{{.Message}}</p>{{end}}
  {{if .IDs}}
  <ul class="adventures">
    {{range .IDs}}<li><a href="/view/{{.}}">{{.}}</a> <a class="small" href="/editor?load={{.}}">edit</a></li>
    {{end}}
  </ul>
  {{else}}
  <p class="small">No adventures found.</p>
  {{end}}
  <p><a class="btn" href="/editor">New adventure</a> <a class="btn" href="/pdf">Download PDF</a></p>
</body>
</html>
`

// cssContent is shared by the viewer document and the index page.
const cssContent = `
:root{
  --bg:#0e0f12; --panel:#151821; --ink:#e7ecf3; --muted:#b7c3d6; --accent:#79b8ff; --accent2:#a4f9c8;
  --pill:#1e2430; --pill-border:#2a3142; --link:#9ed0ff;
  --left:46%; --right:54%;
  --gutter:10px;
}
html,body{background:var(--bg); color:var(--ink); margin:0; font-family:system-ui,-apple-system,Segoe UI,Roboto,Inter,Helvetica,Arial,sans-serif; line-height:1.55; height:100%}
body.index{padding:16px 24px}
.wrap{display:grid; grid-template-columns:var(--left) var(--gutter) var(--right); grid-template-rows:100%; gap:0; height:100vh; box-sizing:border-box; padding:10px}
.viewer{grid-column:1; position:sticky; top:0; height:calc(100vh - 20px); background:#0b0c10; border:1px solid #222839; border-radius:12px; overflow:auto; padding:8px}
.right{grid-column:3; overflow:auto; padding-left:12px; padding-right:6px}
.gutter{grid-column:2; cursor:col-resize; position:relative; display:flex; align-items:center; justify-content:center; touch-action:none}
.bar{width:16px; height:70%; background:linear-gradient(180deg,#2a3142,#3b4560); border-radius:6px; box-shadow:0 0 0 1px #1d2330, inset 0 0 0 1px #4a5876}
.gutter.active .bar{background:linear-gradient(180deg,#5b6a8d,#8aa2d1)}
h1{font-size:1.45rem; margin:.2rem 0 .6rem}
h2{font-size:1.18rem; margin:1rem 0 .4rem}
h3{font-size:1.02rem; margin:.9rem 0 .25rem; color:var(--muted)}
p{margin:.5rem 0}
a{color:var(--link)}
.panel{background:var(--panel); border:1px solid #222839; border-radius:14px; padding:12px 14px; margin:10px 0}
.readaloud{border-left:4px solid var(--accent2); background:#182028; padding:10px 12px; border-radius:10px}
.pill{display:inline-block; background:var(--pill); border:1px solid var(--pill-border); border-radius:999px; padding:.18rem .55rem; margin:.12rem .2rem; font-size:.86rem; color:var(--muted)}
.pdf{color:var(--link); border-bottom:1px dotted #3b5b7c; cursor:pointer}
.pdf:hover{text-decoration:underline}
.small{font-size:.92rem; color:var(--muted)}
.kbd{font-family:ui-monospace,SFMono-Regular,Menlo,Consolas,monospace; background:#212634; border:1px solid #2a3142; padding:.08rem .4rem; border-radius:6px}
.toolbar{display:flex; gap:8px; align-items:center; flex-wrap:wrap; padding:6px 6px 8px; position:sticky; top:0; background:#0b0c10; z-index:2}
.spacer{flex:1 1 auto}
.btn{appearance:none; border:1px solid #2a3142; background:#1a2030; color:#cfe2ff; padding:.34rem .6rem; border-radius:10px; cursor:pointer; text-decoration:none}
input[type="number"]{width:5rem; background:#121620; border:1px solid #2a3142; color:#e6eefc; padding:.3rem .4rem; border-radius:8px}
canvas{display:block; margin:0 auto; background:#0b0c10; border:1px solid #222839; border-radius:8px}
.note{color:#a9bad6; font-size:.9rem}
.error{padding:8px 6px}
pre{overflow:auto; padding:8px; border-radius:8px}
table{border-collapse:collapse}
td,th{border:1px solid #2a3142; padding:.2rem .5rem}
`

// runtimeJS drives PDF.js: page navigation, zoom, fit width, the split
// pane and keyword markers. At most one render is in flight; requests made
// meanwhile overwrite a single pending slot.
const runtimeJS = `(function(){
  const errEl = document.getElementById('pdfError');
  const canvas = document.getElementById('pdfCanvas');
  const ctx = canvas.getContext('2d');
  const viewer = document.getElementById('viewer');
  const pageInput = document.getElementById('pageInput');
  const pageCount = document.getElementById('pageCount');
  let pdfDoc = null, currentPage = 1, totalPages = 0, scale = CFG.initialScale;
  let rendering = false, pending = null;

  function msg(t){ errEl.textContent = t; }
  function clamp(v, lo, hi){ return Math.max(lo, Math.min(hi, v)); }
  function decode(b64){
    const bin = atob(b64);
    const bytes = new Uint8Array(bin.length);
    for (let i = 0; i < bin.length; i++) bytes[i] = bin.charCodeAt(i);
    return bytes;
  }

  function renderPage(req){
    rendering = true;
    pdfDoc.getPage(req.page).then(page => {
      if (req.fit) {
        const width = viewer.clientWidth - CFG.fitPadding;
        scale = clamp(width / page.getViewport({scale: 1}).width, CFG.fitMinScale, CFG.fitMaxScale);
      }
      const viewport = page.getViewport({scale: scale});
      const dpr = window.devicePixelRatio || 1;
      canvas.width = Math.floor(viewport.width * dpr);
      canvas.height = Math.floor(viewport.height * dpr);
      canvas.style.width = Math.floor(viewport.width) + 'px';
      canvas.style.height = Math.floor(viewport.height) + 'px';
      return page.render({
        canvasContext: ctx,
        viewport: viewport,
        transform: dpr !== 1 ? [dpr, 0, 0, dpr, 0, 0] : null
      }).promise.then(() => {
        pageInput.value = String(req.page);
        pageCount.textContent = '/ ' + totalPages;
        msg('');
      }, e => msg('Render error: ' + e));
    }, e => msg('Page error: ' + e)).finally(() => {
      rendering = false;
      if (pending !== null) { const next = pending; pending = null; renderPage(next); }
    });
  }
  function queueRender(req){ if (rendering) { pending = req; } else { renderPage(req); } }
  function goTo(n, fit){
    if (!pdfDoc || n < 1 || n > totalPages) return;
    currentPage = n;
    queueRender({page: n, fit: !!fit});
  }

  document.getElementById('prevBtn').addEventListener('click', () => goTo(Math.max(1, currentPage - 1)));
  document.getElementById('nextBtn').addEventListener('click', () => goTo(Math.min(totalPages, currentPage + 1)));
  document.getElementById('zoomIn').addEventListener('click', () => { scale = clamp(scale + CFG.zoomStep, CFG.minScale, CFG.maxScale); goTo(currentPage); });
  document.getElementById('zoomOut').addEventListener('click', () => { scale = clamp(scale - CFG.zoomStep, CFG.minScale, CFG.maxScale); goTo(currentPage); });
  document.getElementById('fitWidth').addEventListener('click', () => goTo(currentPage, true));
  pageInput.addEventListener('change', e => { const v = parseInt(e.target.value, 10); if (!isNaN(v)) goTo(v); });

  document.querySelectorAll('.pdf[data-page]').forEach(el => {
    el.addEventListener('click', () => { const p = parseInt(el.getAttribute('data-page'), 10); if (!isNaN(p)) goTo(p, true); });
    el.setAttribute('title', (el.textContent.trim() || 'Open PDF') + ' → page ' + el.getAttribute('data-page'));
  });

  function start(pdfjsLib){
    pdfjsLib.GlobalWorkerOptions.workerSrc = CFG.pdfjsWorkerUrl;
    pdfjsLib.getDocument({data: decode(PDF_B64)}).promise.then(doc => {
      pdfDoc = doc; totalPages = doc.numPages; goTo(1, true);
    }, e => msg('Failed to load PDF: ' + e));
  }
  const s = document.createElement('script');
  s.src = CFG.pdfjsUrl;
  s.onload = () => start(window['pdfjsLib']);
  s.onerror = () => msg('Could not load PDF.js from CDN.');
  document.head.appendChild(s);

  const wrap = document.getElementById('splitWrap');
  const gutter = document.getElementById('gutter');
  let dragging = false, wrapRect = null, lastTap = 0;

  function setSplit(pct){
    pct = clamp(pct, CFG.splitMin, CFG.splitMax);
    wrap.style.setProperty('--left', pct + '%');
    wrap.style.setProperty('--right', (100 - pct) + '%');
    gutter.setAttribute('aria-valuenow', String(Math.round(pct)));
  }
  function resetSplit(){ setSplit(CFG.splitDefault); goTo(currentPage, true); }
  function pointerDown(e){
    dragging = true;
    gutter.classList.add('active');
    wrapRect = wrap.getBoundingClientRect();
    e.preventDefault();
  }
  function pointerMove(e){
    if (!dragging) return;
    const x = e.clientX ?? (e.touches && e.touches[0].clientX);
    if (typeof x !== 'number') return;
    setSplit(((x - wrapRect.left) / wrapRect.width) * 100);
  }
  function pointerUp(){
    if (!dragging) return;
    dragging = false;
    gutter.classList.remove('active');
    goTo(currentPage, true);
  }

  if (window.PointerEvent) {
    gutter.addEventListener('pointerdown', pointerDown);
    window.addEventListener('pointermove', pointerMove);
    window.addEventListener('pointerup', pointerUp);
    window.addEventListener('pointercancel', pointerUp);
  } else {
    gutter.addEventListener('mousedown', pointerDown);
    window.addEventListener('mousemove', pointerMove);
    window.addEventListener('mouseup', pointerUp);
    gutter.addEventListener('touchstart', pointerDown, {passive: false});
    window.addEventListener('touchmove', pointerMove, {passive: false});
    window.addEventListener('touchend', pointerUp);
    window.addEventListener('touchcancel', pointerUp);
  }
  gutter.addEventListener('dblclick', resetSplit);
  gutter.addEventListener('touchend', () => {
    const now = Date.now();
    if (now - lastTap < CFG.doubleTapMs) resetSplit();
    lastTap = now;
  });

  gutter.setAttribute('aria-valuemin', String(CFG.splitMin));
  gutter.setAttribute('aria-valuemax', String(CFG.splitMax));
  setSplit(CFG.splitDefault);
})();`
