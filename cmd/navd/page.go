package main

import "net/http"

func servePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(demoPage))
}

// demoPage is the app shell plus the client shim: it reports the location,
// forwards popstate and anchor clicks, and executes history commands.
const demoPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>navd demo</title>
</head>
<body>
<h1>navd</h1>
<p id="where"></p>
<nav>
  <a href="/">home</a>
  <a href="/users/42?tab=posts">user 42</a>
  <a href="/about#team">about</a>
  <a href="https://example.com/">external</a>
</nav>
<div style="height:150vh"></div>
<h2 id="team">team</h2>
<script>
(function () {
  var proto = location.protocol === "https:" ? "wss:" : "ws:";
  var ws = new WebSocket(proto + "//" + location.host + "/bridge");

  function snap() {
    return {
      origin: location.origin,
      pathname: location.pathname,
      search: location.search,
      hash: location.hash,
      href: location.href
    };
  }

  function show() {
    document.getElementById("where").textContent = location.href;
  }

  ws.onopen = function () {
    ws.send(JSON.stringify({type: "hello", location: snap(), state: history.state}));
    show();
  };

  ws.onmessage = function (e) {
    var msg = JSON.parse(e.data);
    switch (msg.type) {
    case "push":
      history.pushState(msg.state === undefined ? null : msg.state, "", msg.href);
      show();
      break;
    case "replace":
      history.replaceState(msg.state === undefined ? null : msg.state, "", msg.href);
      show();
      break;
    case "scrollTo":
      window.scrollTo(msg.x || 0, msg.y || 0);
      break;
    case "scrollIntoView":
      var el = document.getElementById(msg.id);
      if (el) el.scrollIntoView();
      ws.send(JSON.stringify({type: "scrolled", seq: msg.seq, found: !!el}));
      break;
    case "setHref":
      location.href = msg.href;
      break;
    case "raf":
      requestAnimationFrame(function () {
        ws.send(JSON.stringify({type: "pong", seq: msg.seq}));
      });
      break;
    }
  };

  window.addEventListener("popstate", function () {
    ws.send(JSON.stringify({type: "popstate", location: snap(), state: history.state}));
    show();
  });

  document.addEventListener("click", function (ev) {
    var a = ev.target && ev.target.closest ? ev.target.closest("a") : null;
    if (!a || ev.defaultPrevented) return;
    // Defer to the server; it answers with setHref when the click should
    // have fallen through to the browser.
    ev.preventDefault();
    ws.send(JSON.stringify({
      type: "click",
      click: {
        button: ev.button,
        ctrlKey: ev.ctrlKey,
        shiftKey: ev.shiftKey,
        altKey: ev.altKey,
        metaKey: ev.metaKey,
        anchor: {
          href: a.href,
          target: a.target,
          rel: a.rel,
          download: a.hasAttribute("download"),
          noscroll: a.hasAttribute("data-noscroll")
        }
      }
    }));
  }, true);
})();
</script>
</body>
</html>
`
